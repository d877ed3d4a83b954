package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/lariatlabs/event-source-service/common"
	"github.com/lariatlabs/event-source-service/common/models"
	"github.com/lariatlabs/event-source-service/common/services"
	"github.com/lariatlabs/event-source-service/common/utils"
	"github.com/lariatlabs/event-source-service/repository"
)

// Scope headers. Workspace and user identity come from the authenticated
// request, never from the payload.
const (
	HeaderWorkspaceID = "X-Workspace-ID"
	HeaderUserID      = "X-User-ID"
)

type EventSourceHandler struct {
	service  services.EventSourceService
	triggers services.TriggerService
	router   *chi.Mux
}

func NewEventSourceHandler(service services.EventSourceService, triggers services.TriggerService) *EventSourceHandler {
	h := &EventSourceHandler{
		service:  service,
		triggers: triggers,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleListEventSources)
	r.Post("/", h.handleCreateEventSource)
	r.Get("/{id}", h.handleGetEventSource)
	r.Put("/{id}", h.handleUpdateEventSource)
	r.Delete("/{id}", h.handleDeleteEventSource)
	r.Get("/{id}/triggers", h.handleListTriggers)

	h.router = r
	return h
}

func (h *EventSourceHandler) Router() *chi.Mux {
	return h.router
}

func (h *EventSourceHandler) handleListEventSources(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.Header.Get(HeaderWorkspaceID)
	if workspaceID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing workspace scope")
		return
	}

	filter := models.EventSourceFilter{
		WorkspaceID:   workspaceID,
		Name:          queryOption(r, "name"),
		Flavor:        queryOption(r, "flavor"),
		PluginType:    queryOption(r, "plugin_type"),
		PluginSubtype: queryOption(r, "plugin_subtype"),
		Page:          queryInt(r, "page", 1),
		PerPage:       queryInt(r, "per_page", 20),
	}

	responses, total, err := h.service.Query(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "Failed to list event sources")
		return
	}

	utils.WritePagination(w, http.StatusOK, responses, filter.Page, filter.PerPage, total)
}

func (h *EventSourceHandler) handleCreateEventSource(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.Header.Get(HeaderWorkspaceID)
	if workspaceID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing workspace scope")
		return
	}
	userID := r.Header.Get(HeaderUserID)

	var req models.EventSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	response, err := h.service.Create(r.Context(), req, workspaceID, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to create event source")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, response)
}

func (h *EventSourceHandler) handleGetEventSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	hydrate := true
	if raw := r.URL.Query().Get("hydrate"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid hydrate parameter")
			return
		}
		hydrate = parsed
	}

	response, err := h.service.Get(r.Context(), id, hydrate)
	if err != nil {
		writeServiceError(w, err, "Failed to get event source")
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *EventSourceHandler) handleUpdateEventSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update models.EventSourceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	response, err := h.service.Update(r.Context(), id, update)
	if err != nil {
		writeServiceError(w, err, "Failed to update event source")
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *EventSourceHandler) handleDeleteEventSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "Failed to delete event source")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Event source deleted")
}

// handleListTriggers exposes the read-only back references so callers can see
// what depends on an event source before deleting it.
func (h *EventSourceHandler) handleListTriggers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// 404 for unknown sources rather than an empty list for a bogus ID
	if _, err := h.service.Get(r.Context(), id, false); err != nil {
		writeServiceError(w, err, "Failed to get event source")
		return
	}

	rows, err := h.triggers.ListByEventSource(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to list triggers")
		return
	}

	results := lo.Map(rows, func(row repository.Trigger, _ int) models.TriggerResponse {
		return models.TriggerResponse{
			ID:            row.ID,
			Name:          row.Name,
			EventSourceID: row.EventSourceID,
			IsActive:      row.IsActive,
			CreatedAt:     row.CreatedAt,
		}
	})

	utils.WriteJSON(w, http.StatusOK, results)
}

func queryOption(r *http.Request, key string) mo.Option[string] {
	if !r.URL.Query().Has(key) {
		return mo.None[string]()
	}
	return mo.Some(r.URL.Query().Get(key))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

// writeServiceError translates the service error taxonomy into HTTP statuses.
// Internal failures keep the generic message so store details never leak.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, fallback)
	}
}

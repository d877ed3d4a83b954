package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lariatlabs/event-source-service/common"
	"github.com/lariatlabs/event-source-service/common/db"
	"github.com/lariatlabs/event-source-service/common/logger"
	"github.com/lariatlabs/event-source-service/common/utils"
)

type HealthHandler struct {
	db         *db.DB
	logService *logger.LogService
	router     *chi.Mux
}

func NewHealthHandler(db *db.DB) *HealthHandler {
	h := &HealthHandler{
		db:         db,
		logService: logger.NewLogService(db),
	}

	r := chi.NewRouter()
	r.Get("/", h.handleHealthCheck)
	r.Get("/database", h.handleDatabaseHealth)

	h.router = r
	return h
}

func (h *HealthHandler) Router() *chi.Mux {
	return h.router
}

func (h *HealthHandler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   common.AppName,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *HealthHandler) handleDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbErr := h.logService.CheckDatabaseHealth(ctx)
	dbStats := h.logService.GetDatabaseStats()

	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"stats":     dbStats,
	}
	status := http.StatusOK
	if dbErr != nil {
		response["status"] = "unhealthy"
		response["error"] = dbErr.Error()
		status = http.StatusServiceUnavailable
	}

	utils.WriteJSON(w, status, response)
}

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lariatlabs/event-source-service/common/models"
)

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"id": "es-1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var payload struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Data["id"] != "es-1" {
		t.Errorf("data = %v", payload.Data)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "event source es-1 not found")

	var payload models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Error != http.StatusText(http.StatusNotFound) {
		t.Errorf("error = %q", payload.Error)
	}
	if payload.Msg != "event source es-1 not found" {
		t.Errorf("message = %q", payload.Msg)
	}
}

func TestWritePaginationMeta(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		perPage     int
		total       int64
		wantMeta    models.MetaResponse
	}{
		{
			name:        "partial last page",
			currentPage: 2,
			perPage:     20,
			total:       45,
			wantMeta:    models.MetaResponse{CurrentPage: 2, LastPage: 3, PerPage: 20, Total: 45},
		},
		{
			name:        "empty result set",
			currentPage: 1,
			perPage:     20,
			total:       0,
			wantMeta:    models.MetaResponse{CurrentPage: 1, LastPage: 0, PerPage: 20, Total: 0},
		},
		{
			name:        "zero per page clamped",
			currentPage: 1,
			perPage:     0,
			total:       10,
			wantMeta:    models.MetaResponse{CurrentPage: 1, LastPage: 10, PerPage: 1, Total: 10},
		},
		{
			name:        "negative page clamped",
			currentPage: -3,
			perPage:     10,
			total:       10,
			wantMeta:    models.MetaResponse{CurrentPage: 1, LastPage: 1, PerPage: 10, Total: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WritePagination(rec, http.StatusOK, []string{}, tt.currentPage, tt.perPage, tt.total)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}

			var payload models.BasePaginationResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if payload.Meta != tt.wantMeta {
				t.Errorf("meta = %+v, want %+v", payload.Meta, tt.wantMeta)
			}
		})
	}
}

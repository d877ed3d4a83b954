package logger

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lariatlabs/event-source-service/common/db"
	"github.com/lariatlabs/event-source-service/repository"
)

// AuditLogHook implements zerolog.Hook and mirrors log events into the
// audit_logs table
type AuditLogHook struct {
	db *db.DB

	// fallback carries no hooks; insert failures must not re-enter Run
	// through the hooked global logger.
	fallback zerolog.Logger
}

// NewAuditLogHook creates a new audit log hook
func NewAuditLogHook(db *db.DB) *AuditLogHook {
	return &AuditLogHook{
		db:       db,
		fallback: zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
}

// Run implements zerolog.Hook.Run
func (h *AuditLogHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.WarnLevel {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	// Done asynchronously to not block the logging path.
	go func() {
		defer cancel()
		event := AuditEvent{
			EventType: level.String(),
			Message:   msg,
		}
		if err := h.logToDatabase(ctx, event); err != nil {
			h.fallback.Error().Err(err).Msg("Failed to persist audit log via hook")
		}
	}()
}

func (h *AuditLogHook) logToDatabase(ctx context.Context, event AuditEvent) error {
	var detailsJSON json.RawMessage
	if event.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			h.fallback.Error().Err(err).Msg("Failed to marshal audit details")
			detailsJSON = json.RawMessage("{}")
		}
	} else {
		detailsJSON = json.RawMessage("{}")
	}

	return h.db.Queries.CreateAuditLog(ctx, repository.CreateAuditLogParams{
		ID: uuid.NewString(),
		EventSourceID: pgtype.Text{
			String: event.EventSourceID,
			Valid:  event.EventSourceID != "",
		},
		EventType: event.EventType,
		Message: pgtype.Text{
			String: event.Message,
			Valid:  event.Message != "",
		},
		Details:   detailsJSON,
		CreatedAt: time.Now().UTC(),
	})
}

// AuditEvent represents a persisted audit entry
type AuditEvent struct {
	EventSourceID string
	EventType     string
	Message       string
	Details       interface{}
}

// LogService provides structured audit logging to the database
type LogService struct {
	db   *db.DB
	hook *AuditLogHook
}

// InitializeLogging sets up global zerolog configuration with database hooks
func InitializeLogging(db *db.DB) {
	hook := NewAuditLogHook(db)
	log.Logger = log.Logger.Hook(hook)
}

// NewLogService creates a new log service
func NewLogService(db *db.DB) *LogService {
	return &LogService{
		db:   db,
		hook: NewAuditLogHook(db),
	}
}

// Log creates an audit entry in the database and mirrors it to the console
func (s *LogService) Log(ctx context.Context, event AuditEvent) error {
	if err := s.hook.logToDatabase(ctx, event); err != nil {
		log.Error().Err(err).Msg("Failed to insert audit log into database")
		return err
	}

	entry := log.Info()
	if event.EventSourceID != "" {
		entry = entry.Str("eventSourceID", event.EventSourceID)
	}
	entry.
		Str("eventType", event.EventType).
		Str("message", event.Message).
		Interface("details", event.Details).
		Msg("Event source audit entry")

	return nil
}

// SourceCreated records the creation of an event source
func (s *LogService) SourceCreated(ctx context.Context, eventSourceID, workspaceID, flavor string) error {
	return s.Log(ctx, AuditEvent{
		EventSourceID: eventSourceID,
		EventType:     "event_source.created",
		Message:       "Event source created",
		Details: map[string]interface{}{
			"workspace_id": workspaceID,
			"flavor":       flavor,
		},
	})
}

// SourceUpdated records a mutation of an event source
func (s *LogService) SourceUpdated(ctx context.Context, eventSourceID string, changedFields []string) error {
	return s.Log(ctx, AuditEvent{
		EventSourceID: eventSourceID,
		EventType:     "event_source.updated",
		Message:       "Event source updated",
		Details: map[string]interface{}{
			"changed_fields": changedFields,
		},
	})
}

// SourceDeleted records the deletion of an event source
func (s *LogService) SourceDeleted(ctx context.Context, eventSourceID string) error {
	return s.Log(ctx, AuditEvent{
		EventSourceID: eventSourceID,
		EventType:     "event_source.deleted",
		Message:       "Event source deleted",
	})
}

// SecretRotationRequested records a rotate_secret side-effect dispatch
func (s *LogService) SecretRotationRequested(ctx context.Context, eventSourceID string) error {
	return s.Log(ctx, AuditEvent{
		EventSourceID: eventSourceID,
		EventType:     "event_source.rotate_secret",
		Message:       "Secret rotation requested",
	})
}

// CheckDatabaseHealth verifies the database connection is alive
func (s *LogService) CheckDatabaseHealth(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetDatabaseStats returns connection pool statistics
func (s *LogService) GetDatabaseStats() map[string]interface{} {
	stats := s.db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stats.TotalConns(),
		"idle_conns":     stats.IdleConns(),
		"acquired_conns": stats.AcquiredConns(),
		"max_conns":      stats.MaxConns(),
	}
}

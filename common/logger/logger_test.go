package logger

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lariatlabs/event-source-service/common/db"
	"github.com/lariatlabs/event-source-service/repository"
)

// failingDBTX rejects every statement and counts the attempts.
type failingDBTX struct {
	execs atomic.Int64
}

func (f *failingDBTX) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execs.Add(1)
	return pgconn.CommandTag{}, errors.New("insert failed")
}

func (f *failingDBTX) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("insert failed")
}

func (f *failingDBTX) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return nil
}

// A persistently failing audit insert must log its failure through the
// unhooked fallback logger: one error event through the hooked global logger
// has to result in exactly one insert attempt, not a retry chain.
func TestAuditLogHookFailureDoesNotRecurse(t *testing.T) {
	tx := &failingDBTX{}
	hook := NewAuditLogHook(&db.DB{Queries: repository.New(tx)})
	hook.fallback = zerolog.New(io.Discard)

	previous := log.Logger
	log.Logger = zerolog.New(io.Discard).Hook(hook)
	defer func() { log.Logger = previous }()

	log.Error().Msg("mutation failed")

	// The insert runs on a goroutine; give a retry chain time to show up.
	time.Sleep(250 * time.Millisecond)

	if got := tx.execs.Load(); got != 1 {
		t.Errorf("insert attempts = %d, want exactly 1", got)
	}
}

func TestAuditLogHookIgnoresLowLevels(t *testing.T) {
	tx := &failingDBTX{}
	hook := NewAuditLogHook(&db.DB{Queries: repository.New(tx)})
	hook.fallback = zerolog.New(io.Discard)

	logger := zerolog.New(io.Discard).Hook(hook)
	logger.Info().Msg("routine event")
	logger.Debug().Msg("noise")

	time.Sleep(100 * time.Millisecond)

	if got := tx.execs.Load(); got != 0 {
		t.Errorf("insert attempts = %d, want 0 for sub-warn levels", got)
	}
}

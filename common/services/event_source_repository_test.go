package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/mo"

	"github.com/lariatlabs/event-source-service/common"
	"github.com/lariatlabs/event-source-service/common/db"
	"github.com/lariatlabs/event-source-service/repository"
)

// stubRow satisfies pgx.Row with a canned Scan result.
type stubRow struct {
	err error
}

func (r stubRow) Scan(dest ...interface{}) error { return r.err }

// stubDBTX answers every QueryRow with the same row.
type stubDBTX struct {
	row stubRow
}

func (s *stubDBTX) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not supported")
}

func (s *stubDBTX) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (s *stubDBTX) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return s.row
}

func TestOptionText(t *testing.T) {
	tests := []struct {
		name      string
		opt       mo.Option[string]
		wantValid bool
		wantValue string
	}{
		{name: "unset", opt: mo.None[string](), wantValid: false},
		{name: "set", opt: mo.Some("webhook"), wantValid: true, wantValue: "webhook"},
		{name: "set to empty", opt: mo.Some(""), wantValid: true, wantValue: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := optionText(tt.opt)
			if got.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if got.Valid && got.String != tt.wantValue {
				t.Errorf("String = %q, want %q", got.String, tt.wantValue)
			}
		})
	}
}

func TestTranslateStoreError(t *testing.T) {
	t.Run("no rows becomes not found", func(t *testing.T) {
		err := translateStoreError(pgx.ErrNoRows, "es-1")
		if !errors.Is(err, common.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("wrapped no rows becomes not found", func(t *testing.T) {
		err := translateStoreError(fmt.Errorf("scan: %w", pgx.ErrNoRows), "es-1")
		if !errors.Is(err, common.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("other errors pass through", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := translateStoreError(cause, "es-1")
		if !errors.Is(err, cause) {
			t.Errorf("err = %v, want the original cause", err)
		}
		if errors.Is(err, common.ErrNotFound) {
			t.Error("unexpected ErrNotFound")
		}
	})
}

func TestEnsureNameAvailable(t *testing.T) {
	newRepo := func(row stubRow) *EventSourceRepository {
		return &EventSourceRepository{
			db: &db.DB{Queries: repository.New(&stubDBTX{row: row})},
		}
	}

	t.Run("name free", func(t *testing.T) {
		r := newRepo(stubRow{err: pgx.ErrNoRows})
		if err := r.ensureNameAvailable(context.Background(), "ws-1", "github-main"); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})

	t.Run("name taken", func(t *testing.T) {
		r := newRepo(stubRow{err: nil})
		err := r.ensureNameAvailable(context.Background(), "ws-1", "github-main")
		if !errors.Is(err, common.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		cause := errors.New("connection reset")
		r := newRepo(stubRow{err: cause})
		err := r.ensureNameAvailable(context.Background(), "ws-1", "github-main")
		if !errors.Is(err, cause) {
			t.Errorf("err = %v, want the lookup failure", err)
		}
		if errors.Is(err, common.ErrValidation) {
			t.Error("unexpected ErrValidation for a store failure")
		}
	})
}

func TestCacheKey(t *testing.T) {
	if got := cacheKey("es-1"); got != "event_source:es-1" {
		t.Errorf("cacheKey = %q", got)
	}
}

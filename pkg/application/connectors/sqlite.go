package connectors

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"scan_service/pkg/logx"
)

// SQLite opens an embedded database file. A single connection serialises
// writers, which sqlite requires anyway.
type SQLite struct {
	value *sqlx.DB
	Path  string
	init  sync.Once
}

func (s *SQLite) Client(ctx context.Context) *sqlx.DB {
	s.init.Do(func() {
		s.value = lo.Must(sqlx.Open("sqlite", s.Path))
		s.value.SetMaxOpenConns(1)

		lo.Must(s.value.ExecContext(ctx, "PRAGMA journal_mode = WAL"))
		lo.Must(s.value.ExecContext(ctx, "PRAGMA busy_timeout = 5000"))

		logger(ctx).Info("sqlite opened", slog.String("path", s.Path))
	})

	return s.value
}

func (s *SQLite) Close(ctx context.Context) {
	if s.value == nil {
		return
	}

	if err := s.value.Close(); err != nil {
		logger(ctx).Error("sqliteClient.Close", logx.Error(err))
	}

	logger(ctx).Info("sqlite closed", slog.String("path", s.Path))
}

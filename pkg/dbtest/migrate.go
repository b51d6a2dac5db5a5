package dbtest

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
)

// MigrateFromFile runs every SQL file against db in the given order. Files
// may hold several statements.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	return MigrateFromFileContext(context.Background(), db, fileNames...)
}

func MigrateFromFileContext(ctx context.Context, db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		query, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("db.ExecContext %s: %w", fileName, err)
		}
	}

	return nil
}

package persistence

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
)

var (
	//go:embed schema/postgres/scans.sql
	postgresScansSchema string

	//go:embed schema/sqlite/scans.sql
	sqliteScansSchema string
)

const selectScansQuery = `SELECT id, user_name, car_brand, score_number FROM scans`

func init() { //nolint:gochecknoinits
	// modernc.org/sqlite registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLScanRepository stores scans in a relational table. Queries are written
// with ? placeholders and rebound for the driver, so the same repository
// serves Postgres (pgx) and SQLite.
type SQLScanRepository struct {
	db *sqlx.DB
}

func NewSQLScanRepository(db *sqlx.DB) *SQLScanRepository {
	return &SQLScanRepository{db: db}
}

// EnsureSchema creates the scans table and its indexes if they are missing.
func (r *SQLScanRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range splitStatements(scansSchemaFor(r.db.DriverName())) {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return storeError(err, "failed to create scans schema")
		}
	}

	return nil
}

func (r *SQLScanRepository) Insert(ctx context.Context, scan *entity.Scan) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if scan.ID.IsZero() {
			scan.ID = value.ScanID(uuid.NewString())
		}

		schema := fromScan(*scan)

		// seq is assigned once and kept on replace, so listing order stays stable.
		query := `
			INSERT INTO scans (id, user_name, car_brand, score_number)
			VALUES (:id, :user_name, :car_brand, :score_number)
			ON CONFLICT (id) DO UPDATE SET
				user_name = excluded.user_name,
				car_brand = excluded.car_brand,
				score_number = excluded.score_number`

		if _, err := tx.NamedExecContext(ctx, query, schema); err != nil {
			return storeError(err, "failed to save scan")
		}

		return nil
	})
}

func (r *SQLScanRepository) FindByUserName(ctx context.Context, userName value.UserName) ([]entity.Scan, error) {
	return r.selectScans(ctx, selectScansQuery+` WHERE user_name = ? ORDER BY seq`, userName.String())
}

func (r *SQLScanRepository) FindByCarBrand(ctx context.Context, carBrand value.CarBrand) ([]entity.Scan, error) {
	return r.selectScans(ctx, selectScansQuery+` WHERE car_brand = ? ORDER BY seq`, carBrand.String())
}

func (r *SQLScanRepository) FindByUserNameAndCarBrand(
	ctx context.Context,
	userName value.UserName,
	carBrand value.CarBrand,
) (entity.Scan, bool, error) {
	query := r.db.Rebind(selectScansQuery + ` WHERE user_name = ? AND car_brand = ? ORDER BY seq LIMIT 1`)

	var schema scanSchema
	if err := r.db.GetContext(ctx, &schema, query, userName.String(), carBrand.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Scan{}, false, nil
		}

		return entity.Scan{}, false, storeError(err, "failed to get scan")
	}

	return schema.toDomain(), true, nil
}

func (r *SQLScanRepository) FindAll(ctx context.Context) ([]entity.Scan, error) {
	return r.selectScans(ctx, selectScansQuery+` ORDER BY seq`)
}

func (r *SQLScanRepository) Delete(ctx context.Context, scan entity.Scan) error {
	query := r.db.Rebind(`DELETE FROM scans WHERE id = ?`)

	if _, err := r.db.ExecContext(ctx, query, scan.ID.String()); err != nil {
		return storeError(err, "failed to delete scan")
	}

	return nil
}

func (r *SQLScanRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM scans`); err != nil {
		return 0, storeError(err, "failed to count scans")
	}

	return count, nil
}

func (r *SQLScanRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storeError(err, "failed to ping database")
	}

	return nil
}

func (r *SQLScanRepository) selectScans(ctx context.Context, query string, args ...any) ([]entity.Scan, error) {
	var schemas []scanSchema
	if err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(query), args...); err != nil {
		return nil, storeError(err, "failed to list scans")
	}

	return schemasToDomain(schemas), nil
}

// scansSchemaFor returns the DDL for a database/sql driver name.
func scansSchemaFor(driverName string) string {
	if driverName == "sqlite" {
		return sqliteScansSchema
	}

	return postgresScansSchema
}

func (r *SQLScanRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeError(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return storeError(fmt.Errorf("%w; rollback: %w", err, rbErr), "transaction failed")
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return storeError(err, "failed to commit")
	}

	return nil
}

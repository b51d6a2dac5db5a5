package service

import (
	"context"
	"fmt"
	"log/slog"

	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
)

type SeedRepository interface {
	Insert(ctx context.Context, scan *entity.Scan) error
	Count(ctx context.Context) (int64, error)
}

// DefaultSeed is the data set inserted into an empty store on first start.
func DefaultSeed() []entity.Scan {
	return []entity.Scan{
		entity.NewScan(value.UserName("lode"), value.CarBrand("audi a4"), 5),
		entity.NewScan(value.UserName("lode"), value.CarBrand("traktor"), 2),
		entity.NewScan(value.UserName("johnny"), value.CarBrand("lamborghini"), 5),
		entity.NewScan(value.UserName("lode"), value.CarBrand("volkswagen golf"), 3),
	}
}

// Seed inserts scans only when the store is empty and returns how many were
// inserted. It is meant to be called once during start up, never per request.
func Seed(ctx context.Context, repo SeedRepository, scans ...entity.Scan) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.Count: %w", err)
	}

	if count > 0 {
		logger(ctx).Info("seed skipped, store is not empty", slog.Int64("count", count))

		return 0, nil
	}

	for i := range scans {
		scan := scans[i]
		scan.ID = ""

		if err = repo.Insert(ctx, &scan); err != nil {
			return i, fmt.Errorf("repo.Insert: %w", err)
		}
	}

	logger(ctx).Info("store seeded", slog.Int("count", len(scans)))

	return len(scans), nil
}

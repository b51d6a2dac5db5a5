package persistence

import (
	"context"
	"time"

	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
	"scan_service/pkg/metrics"
)

// ScanStore is implemented by every driver in this package.
type ScanStore interface {
	Insert(ctx context.Context, scan *entity.Scan) error
	FindByUserName(ctx context.Context, userName value.UserName) ([]entity.Scan, error)
	FindByCarBrand(ctx context.Context, carBrand value.CarBrand) ([]entity.Scan, error)
	FindByUserNameAndCarBrand(
		ctx context.Context,
		userName value.UserName,
		carBrand value.CarBrand,
	) (entity.Scan, bool, error)
	FindAll(ctx context.Context) ([]entity.Scan, error)
	Delete(ctx context.Context, scan entity.Scan) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// InstrumentedScanStore records the latency of every store call.
type InstrumentedScanStore struct {
	next   ScanStore
	driver string
}

func NewInstrumentedScanStore(next ScanStore, driver string) *InstrumentedScanStore {
	return &InstrumentedScanStore{
		next:   next,
		driver: driver,
	}
}

func (s *InstrumentedScanStore) Insert(ctx context.Context, scan *entity.Scan) error {
	start := time.Now()
	err := s.next.Insert(ctx, scan)
	s.record("insert", start, err)

	return err
}

func (s *InstrumentedScanStore) FindByUserName(ctx context.Context, userName value.UserName) ([]entity.Scan, error) {
	start := time.Now()
	scans, err := s.next.FindByUserName(ctx, userName)
	s.record("find_by_user_name", start, err)

	return scans, err
}

func (s *InstrumentedScanStore) FindByCarBrand(ctx context.Context, carBrand value.CarBrand) ([]entity.Scan, error) {
	start := time.Now()
	scans, err := s.next.FindByCarBrand(ctx, carBrand)
	s.record("find_by_car_brand", start, err)

	return scans, err
}

func (s *InstrumentedScanStore) FindByUserNameAndCarBrand(
	ctx context.Context,
	userName value.UserName,
	carBrand value.CarBrand,
) (entity.Scan, bool, error) {
	start := time.Now()
	scan, found, err := s.next.FindByUserNameAndCarBrand(ctx, userName, carBrand)
	s.record("find_by_user_name_and_car_brand", start, err)

	return scan, found, err
}

func (s *InstrumentedScanStore) FindAll(ctx context.Context) ([]entity.Scan, error) {
	start := time.Now()
	scans, err := s.next.FindAll(ctx)
	s.record("find_all", start, err)

	return scans, err
}

func (s *InstrumentedScanStore) Delete(ctx context.Context, scan entity.Scan) error {
	start := time.Now()
	err := s.next.Delete(ctx, scan)
	s.record("delete", start, err)

	return err
}

func (s *InstrumentedScanStore) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := s.next.Count(ctx)
	s.record("count", start, err)

	return count, err
}

func (s *InstrumentedScanStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.record("ping", start, err)

	return err
}

func (s *InstrumentedScanStore) record(operation string, start time.Time, err error) {
	metrics.StoreOperationDuration.
		WithLabelValues(s.driver, operation, metrics.Status(err)).
		Observe(time.Since(start).Seconds())
}

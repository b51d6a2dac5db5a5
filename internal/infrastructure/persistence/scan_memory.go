package persistence

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
)

type memoryScan struct {
	scan entity.Scan
	seq  uint64
}

// MemoryScanRepository keeps scans in process memory. Listing order is the
// order of first insertion.
type MemoryScanRepository struct {
	items *cache.Cache
	mu    sync.Mutex
	seq   uint64
}

func NewMemoryScanRepository() *MemoryScanRepository {
	return &MemoryScanRepository{
		items: cache.New(cache.NoExpiration, 0),
	}
}

func (r *MemoryScanRepository) Insert(_ context.Context, scan *entity.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if scan.ID.IsZero() {
		scan.ID = value.ScanID(uuid.NewString())
	}

	item := memoryScan{scan: *scan}

	if existing, ok := r.items.Get(scan.ID.String()); ok {
		item.seq = existing.(memoryScan).seq //nolint:forcetypeassert
	} else {
		r.seq++
		item.seq = r.seq
	}

	r.items.Set(scan.ID.String(), item, cache.NoExpiration)

	return nil
}

func (r *MemoryScanRepository) FindByUserName(_ context.Context, userName value.UserName) ([]entity.Scan, error) {
	return r.filter(func(s entity.Scan) bool { return s.UserName == userName }), nil
}

func (r *MemoryScanRepository) FindByCarBrand(_ context.Context, carBrand value.CarBrand) ([]entity.Scan, error) {
	return r.filter(func(s entity.Scan) bool { return s.CarBrand == carBrand }), nil
}

func (r *MemoryScanRepository) FindByUserNameAndCarBrand(
	_ context.Context,
	userName value.UserName,
	carBrand value.CarBrand,
) (entity.Scan, bool, error) {
	scans := r.filter(func(s entity.Scan) bool {
		return s.UserName == userName && s.CarBrand == carBrand
	})

	if len(scans) == 0 {
		return entity.Scan{}, false, nil
	}

	return scans[0], true, nil
}

func (r *MemoryScanRepository) FindAll(context.Context) ([]entity.Scan, error) {
	return r.filter(func(entity.Scan) bool { return true }), nil
}

func (r *MemoryScanRepository) Delete(_ context.Context, scan entity.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items.Delete(scan.ID.String())

	return nil
}

func (r *MemoryScanRepository) Count(context.Context) (int64, error) {
	return int64(r.items.ItemCount()), nil
}

func (r *MemoryScanRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryScanRepository) filter(match func(entity.Scan) bool) []entity.Scan {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]memoryScan, 0)

	for _, item := range r.items.Items() {
		ms := item.Object.(memoryScan) //nolint:forcetypeassert
		if match(ms.scan) {
			matched = append(matched, ms)
		}
	}

	slices.SortFunc(matched, func(a, b memoryScan) int {
		return cmp.Compare(a.seq, b.seq)
	})

	result := make([]entity.Scan, len(matched))
	for i, ms := range matched {
		result[i] = ms.scan
	}

	return result
}

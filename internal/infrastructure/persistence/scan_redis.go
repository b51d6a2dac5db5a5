package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// redisScanDocument is the JSON value stored per scan. Seq is taken from a
// counter on first insert and orders every index.
type redisScanDocument struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	CarBrand    string `json:"carBrand"`
	ScoreNumber int    `json:"scoreNumber"`
	Seq         int64  `json:"seq"`
}

func (d redisScanDocument) toDomain() entity.Scan {
	return entity.Scan{
		ID:          value.ScanID(d.ID),
		UserName:    value.UserName(d.UserName),
		CarBrand:    value.CarBrand(d.CarBrand),
		ScoreNumber: d.ScoreNumber,
	}
}

// RedisScanRepository keeps every scan as a JSON document under
// <prefix>:doc:<id> and maintains sorted set indexes (score = seq) for the
// full listing, per user name and per car brand.
type RedisScanRepository struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisScanRepository(client redis.UniversalClient, prefix string) *RedisScanRepository {
	return &RedisScanRepository{
		redis:  client,
		prefix: prefix,
	}
}

func (r *RedisScanRepository) Insert(ctx context.Context, scan *entity.Scan) error {
	if scan.ID.IsZero() {
		scan.ID = value.ScanID(uuid.NewString())
	}

	previous, found, err := r.get(ctx, scan.ID.String())
	if err != nil {
		return err
	}

	doc := redisScanDocument{
		ID:          scan.ID.String(),
		UserName:    scan.UserName.String(),
		CarBrand:    scan.CarBrand.String(),
		ScoreNumber: scan.ScoreNumber,
		Seq:         previous.Seq,
	}

	if !found {
		if doc.Seq, err = r.redis.Incr(ctx, r.key("seq")).Result(); err != nil {
			return storeError(err, "failed to allocate scan sequence")
		}
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return storeError(err, "failed to marshal scan")
	}

	_, err = r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if found {
			pipe.ZRem(ctx, r.userKey(previous.UserName), previous.ID)
			pipe.ZRem(ctx, r.carKey(previous.CarBrand), previous.ID)
		}

		member := redis.Z{Score: float64(doc.Seq), Member: doc.ID}

		pipe.Set(ctx, r.docKey(doc.ID), payload, 0)
		pipe.ZAdd(ctx, r.key("all"), member)
		pipe.ZAdd(ctx, r.userKey(doc.UserName), member)
		pipe.ZAdd(ctx, r.carKey(doc.CarBrand), member)

		return nil
	})
	if err != nil {
		return storeError(err, "failed to save scan")
	}

	return nil
}

func (r *RedisScanRepository) FindByUserName(ctx context.Context, userName value.UserName) ([]entity.Scan, error) {
	return r.list(ctx, r.userKey(userName.String()))
}

func (r *RedisScanRepository) FindByCarBrand(ctx context.Context, carBrand value.CarBrand) ([]entity.Scan, error) {
	return r.list(ctx, r.carKey(carBrand.String()))
}

func (r *RedisScanRepository) FindByUserNameAndCarBrand(
	ctx context.Context,
	userName value.UserName,
	carBrand value.CarBrand,
) (entity.Scan, bool, error) {
	scans, err := r.list(ctx, r.userKey(userName.String()))
	if err != nil {
		return entity.Scan{}, false, err
	}

	for _, scan := range scans {
		if scan.CarBrand == carBrand {
			return scan, true, nil
		}
	}

	return entity.Scan{}, false, nil
}

func (r *RedisScanRepository) FindAll(ctx context.Context) ([]entity.Scan, error) {
	return r.list(ctx, r.key("all"))
}

func (r *RedisScanRepository) Delete(ctx context.Context, scan entity.Scan) error {
	id := scan.ID.String()

	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.docKey(id))
		pipe.ZRem(ctx, r.key("all"), id)
		pipe.ZRem(ctx, r.userKey(scan.UserName.String()), id)
		pipe.ZRem(ctx, r.carKey(scan.CarBrand.String()), id)

		return nil
	})
	if err != nil {
		return storeError(err, "failed to delete scan")
	}

	return nil
}

func (r *RedisScanRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.redis.ZCard(ctx, r.key("all")).Result()
	if err != nil {
		return 0, storeError(err, "failed to count scans")
	}

	return count, nil
}

func (r *RedisScanRepository) Ping(ctx context.Context) error {
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return storeError(err, "failed to ping redis")
	}

	return nil
}

func (r *RedisScanRepository) get(ctx context.Context, id string) (redisScanDocument, bool, error) {
	raw, err := r.redis.Get(ctx, r.docKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return redisScanDocument{}, false, nil
		}

		return redisScanDocument{}, false, storeError(err, "failed to get scan")
	}

	var doc redisScanDocument
	if err = json.Unmarshal(raw, &doc); err != nil {
		return redisScanDocument{}, false, storeError(err, "failed to unmarshal scan")
	}

	return doc, true, nil
}

func (r *RedisScanRepository) list(ctx context.Context, indexKey string) ([]entity.Scan, error) {
	ids, err := r.redis.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, storeError(err, "failed to read scan index")
	}

	if len(ids) == 0 {
		return []entity.Scan{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storeError(err, "failed to read scans")
	}

	result := make([]entity.Scan, 0, len(values))

	for _, v := range values {
		// Index entries may outlive a document deleted concurrently.
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var doc redisScanDocument
		if err = json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, storeError(err, "failed to unmarshal scan")
		}

		result = append(result, doc.toDomain())
	}

	return result, nil
}

func (r *RedisScanRepository) key(suffix string) string {
	return fmt.Sprintf("%s:%s", r.prefix, suffix)
}

func (r *RedisScanRepository) docKey(id string) string {
	return r.key("doc:" + id)
}

func (r *RedisScanRepository) userKey(userName string) string {
	return r.key("user:" + userName)
}

func (r *RedisScanRepository) carKey(carBrand string) string {
	return r.key("car:" + carBrand)
}

package persistence

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"scan_service/internal/domain"
	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
	"scan_service/pkg/errcodes"
	"scan_service/pkg/logx"
)

// elasticSearchLimit bounds a single listing. Larger listings are cut and
// logged as truncated.
const elasticSearchLimit = 10000

type elasticScanDocument struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	CarBrand    string `json:"carBrand"`
	ScoreNumber int    `json:"scoreNumber"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

func (d elasticScanDocument) toDomain() entity.Scan {
	return entity.Scan{
		ID:          value.ScanID(d.ID),
		UserName:    value.UserName(d.UserName),
		CarBrand:    value.CarBrand(d.CarBrand),
		ScoreNumber: d.ScoreNumber,
	}
}

type elasticSearchResponse struct {
	Hits struct {
		Total struct {
			Value    int64  `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []struct {
			Source elasticScanDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type elasticCountResponse struct {
	Count int64 `json:"count"`
}

// ElasticScanRepository stores scans as documents of a single index. Writes
// wait for the index refresh so that reads observe them.
type ElasticScanRepository struct {
	client *elasticsearch.Client
	index  string

	// lastCreatedAt keeps createdAt strictly increasing within a process.
	lastCreatedAt atomic.Int64
}

func NewElasticScanRepository(client *elasticsearch.Client, index string) *ElasticScanRepository {
	return &ElasticScanRepository{
		client: client,
		index:  index,
	}
}

// EnsureIndex creates the index with keyword mappings unless it exists.
func (r *ElasticScanRepository) EnsureIndex(ctx context.Context) error {
	existsRes, err := r.client.Indices.Exists([]string{r.index},
		r.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return storeError(err, "failed to check scan index")
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == http.StatusOK {
		return nil
	}

	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":          map[string]any{"type": "keyword"},
				"userName":    map[string]any{"type": "keyword"},
				"carBrand":    map[string]any{"type": "keyword"},
				"scoreNumber": map[string]any{"type": "long"},
				"createdAt":   map[string]any{"type": "long"},
			},
		},
	}

	body, err := encodeBody(mapping)
	if err != nil {
		return err
	}

	res, err := r.client.Indices.Create(r.index,
		r.client.Indices.Create.WithBody(body),
		r.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return storeError(err, "failed to create scan index")
	}
	defer res.Body.Close()

	// 400 resource_already_exists_exception when another instance won the race.
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return responseError(res, "failed to create scan index")
	}

	return nil
}

func (r *ElasticScanRepository) Insert(ctx context.Context, scan *entity.Scan) error {
	doc := elasticScanDocument{
		ID:          scan.ID.String(),
		UserName:    scan.UserName.String(),
		CarBrand:    scan.CarBrand.String(),
		ScoreNumber: scan.ScoreNumber,
		CreatedAt:   r.nextCreatedAt(),
	}

	if scan.ID.IsZero() {
		doc.ID = uuid.NewString()

		if err := r.create(ctx, doc); err != nil {
			return err
		}

		scan.ID = value.ScanID(doc.ID)

		return nil
	}

	return r.replace(ctx, doc)
}

func (r *ElasticScanRepository) FindByUserName(ctx context.Context, userName value.UserName) ([]entity.Scan, error) {
	return r.search(ctx, elasticSearchLimit, termFilter("userName", userName.String()))
}

func (r *ElasticScanRepository) FindByCarBrand(ctx context.Context, carBrand value.CarBrand) ([]entity.Scan, error) {
	return r.search(ctx, elasticSearchLimit, termFilter("carBrand", carBrand.String()))
}

func (r *ElasticScanRepository) FindByUserNameAndCarBrand(
	ctx context.Context,
	userName value.UserName,
	carBrand value.CarBrand,
) (entity.Scan, bool, error) {
	scans, err := r.search(ctx, 1,
		termFilter("userName", userName.String()),
		termFilter("carBrand", carBrand.String()),
	)
	if err != nil {
		return entity.Scan{}, false, err
	}

	if len(scans) == 0 {
		return entity.Scan{}, false, nil
	}

	return scans[0], true, nil
}

func (r *ElasticScanRepository) FindAll(ctx context.Context) ([]entity.Scan, error) {
	return r.search(ctx, elasticSearchLimit)
}

func (r *ElasticScanRepository) Delete(ctx context.Context, scan entity.Scan) error {
	res, err := r.client.Delete(r.index, scan.ID.String(),
		r.client.Delete.WithRefresh("wait_for"),
		r.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return storeError(err, "failed to delete scan")
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError(res, "failed to delete scan")
	}

	return nil
}

func (r *ElasticScanRepository) Count(ctx context.Context) (int64, error) {
	res, err := r.client.Count(
		r.client.Count.WithIndex(r.index),
		r.client.Count.WithContext(ctx),
	)
	if err != nil {
		return 0, storeError(err, "failed to count scans")
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, responseError(res, "failed to count scans")
	}

	var count elasticCountResponse
	if err = json.NewDecoder(res.Body).Decode(&count); err != nil {
		return 0, storeError(err, "failed to decode count response")
	}

	return count.Count, nil
}

func (r *ElasticScanRepository) Ping(ctx context.Context) error {
	res, err := r.client.Ping(r.client.Ping.WithContext(ctx))
	if err != nil {
		return storeError(err, "failed to ping elasticsearch")
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res, "failed to ping elasticsearch")
	}

	return nil
}

func (r *ElasticScanRepository) nextCreatedAt() int64 {
	for {
		last := r.lastCreatedAt.Load()
		next := max(time.Now().UnixNano(), last+1)

		if r.lastCreatedAt.CompareAndSwap(last, next) {
			return next
		}
	}
}

func (r *ElasticScanRepository) create(ctx context.Context, doc elasticScanDocument) error {
	body, err := encodeBody(doc)
	if err != nil {
		return err
	}

	res, err := r.client.Index(r.index, body,
		r.client.Index.WithDocumentID(doc.ID),
		r.client.Index.WithOpType("create"),
		r.client.Index.WithRefresh("wait_for"),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return storeError(err, "failed to index scan")
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res, "failed to index scan")
	}

	return nil
}

// replace overwrites the mutable fields of an existing document. createdAt
// is only written by the upsert branch, so ordering survives updates.
func (r *ElasticScanRepository) replace(ctx context.Context, doc elasticScanDocument) error {
	partial := doc
	partial.CreatedAt = 0

	body, err := encodeBody(map[string]any{
		"doc":    partial,
		"upsert": doc,
	})
	if err != nil {
		return err
	}

	res, err := r.client.Update(r.index, doc.ID, body,
		r.client.Update.WithRefresh("wait_for"),
		r.client.Update.WithContext(ctx),
	)
	if err != nil {
		return storeError(err, "failed to update scan")
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res, "failed to update scan")
	}

	return nil
}

func (r *ElasticScanRepository) search(ctx context.Context, size int, filters ...map[string]any) ([]entity.Scan, error) {
	query := map[string]any{"match_all": map[string]any{}}
	if len(filters) > 0 {
		query = map[string]any{
			"bool": map[string]any{"filter": filters},
		}
	}

	body, err := encodeBody(map[string]any{"query": query})
	if err != nil {
		return nil, err
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(body),
		r.client.Search.WithSize(size),
		r.client.Search.WithSort("createdAt:asc", "id:asc"),
	)
	if err != nil {
		return nil, storeError(err, "failed to search scans")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(res, "failed to search scans")
	}

	var found elasticSearchResponse
	if err = json.NewDecoder(res.Body).Decode(&found); err != nil {
		return nil, storeError(err, "failed to decode search response")
	}

	scans := make([]entity.Scan, 0, len(found.Hits.Hits))
	for _, hit := range found.Hits.Hits {
		scans = append(scans, hit.Source.toDomain())
	}

	total := found.Hits.Total
	if size == elasticSearchLimit && (total.Value > int64(len(scans)) || total.Relation == "gte") {
		logger(ctx).Warn("scan listing truncated",
			slog.String(logx.FieldComponent, "elasticsearch"),
			slog.Int("returned", len(scans)),
			slog.Int64("total", total.Value),
			slog.String("relation", total.Relation),
		)
	}

	return scans, nil
}

func termFilter(field, value string) map[string]any {
	return map[string]any{
		"term": map[string]any{field: value},
	}
}

func encodeBody(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, storeError(err, "failed to encode request body")
	}

	return &buf, nil
}

// responseError turns an error reply into an AppError. Overload and
// unavailability statuses map to StoreUnavailable.
func responseError(res *esapi.Response, message string) *domain.AppError {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	err := fmt.Errorf("elasticsearch: %s: %s", res.Status(), raw)

	switch res.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.WrapError(err, errcodes.StoreUnavailable, message)
	default:
		return domain.WrapError(err, errcodes.InternalServerError, message)
	}
}

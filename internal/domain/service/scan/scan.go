package service

import (
	"context"
	"fmt"
	"log/slog"

	"git.appkode.ru/pub/go/failure"

	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
	"scan_service/pkg/errcodes"
	"scan_service/pkg/logx"
)

// ScanRepository is the document store holding scans. Lookups match the
// canonical user name and car brand exactly.
type ScanRepository interface {
	// Insert stores a new scan or replaces the one with the same ID. An empty
	// ID is assigned by the store and written back into scan.
	Insert(ctx context.Context, scan *entity.Scan) error
	FindByUserName(ctx context.Context, userName value.UserName) ([]entity.Scan, error)
	FindByCarBrand(ctx context.Context, carBrand value.CarBrand) ([]entity.Scan, error)
	// FindByUserNameAndCarBrand reports false when nothing matches. With
	// duplicates it returns the first match in store order.
	FindByUserNameAndCarBrand(ctx context.Context, userName value.UserName, carBrand value.CarBrand) (entity.Scan, bool, error)
	FindAll(ctx context.Context) ([]entity.Scan, error)
	Delete(ctx context.Context, scan entity.Scan) error
	Count(ctx context.Context) (int64, error)
}

type CreateCommand struct {
	UserName    string
	CarBrand    string
	ScoreNumber int
}

// UpdateCommand finds the scan by UserName and CarBrand. NewCarBrand, when
// set, moves the scan to another car brand while it keeps its ID.
type UpdateCommand struct {
	UserName    string
	CarBrand    string
	ScoreNumber int
	NewCarBrand *string
}

// ScanService holds no state between calls. Update and Delete are
// lookup-then-write and not atomic: concurrent updates of the same pair may
// lose one of the writes.
type ScanService struct {
	repo ScanRepository
}

func NewScanService(repo ScanRepository) *ScanService {
	return &ScanService{
		repo: repo,
	}
}

func (s *ScanService) ListByUserName(ctx context.Context, rawUserName string) ([]entity.Scan, error) {
	userName, err := parseUserName(rawUserName)
	if err != nil {
		return nil, err
	}

	scans, err := s.repo.FindByUserName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByUserName: %w", err)
	}

	return nonNil(scans), nil
}

func (s *ScanService) ListByCarBrand(ctx context.Context, rawCarBrand string) ([]entity.Scan, error) {
	carBrand, err := parseCarBrand(rawCarBrand)
	if err != nil {
		return nil, err
	}

	scans, err := s.repo.FindByCarBrand(ctx, carBrand)
	if err != nil {
		return nil, fmt.Errorf("repo.FindByCarBrand: %w", err)
	}

	return nonNil(scans), nil
}

func (s *ScanService) List(ctx context.Context) ([]entity.Scan, error) {
	scans, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.FindAll: %w", err)
	}

	return nonNil(scans), nil
}

func (s *ScanService) Get(ctx context.Context, rawUserName, rawCarBrand string) (entity.Scan, error) {
	userName, carBrand, err := parsePair(rawUserName, rawCarBrand)
	if err != nil {
		return entity.Scan{}, err
	}

	return s.find(ctx, userName, carBrand)
}

func (s *ScanService) Create(ctx context.Context, cmd CreateCommand) (entity.Scan, error) {
	userName, carBrand, err := parsePair(cmd.UserName, cmd.CarBrand)
	if err != nil {
		return entity.Scan{}, err
	}

	scan := entity.NewScan(userName, carBrand, cmd.ScoreNumber)

	if err = s.repo.Insert(ctx, &scan); err != nil {
		return entity.Scan{}, fmt.Errorf("repo.Insert: %w", err)
	}

	logger(ctx).Info(
		"scan created",
		logx.Stringer(logx.FieldScanID, scan.ID),
		logx.Stringer(logx.FieldCarBrand, scan.CarBrand),
	)

	return scan, nil
}

// Update overwrites CarBrand and ScoreNumber of an existing scan. It never
// creates a scan: a missing pair is a not found error.
func (s *ScanService) Update(ctx context.Context, cmd UpdateCommand) (entity.Scan, error) {
	userName, carBrand, err := parsePair(cmd.UserName, cmd.CarBrand)
	if err != nil {
		return entity.Scan{}, err
	}

	newCarBrand := carBrand

	if cmd.NewCarBrand != nil {
		if newCarBrand, err = parseCarBrand(*cmd.NewCarBrand); err != nil {
			return entity.Scan{}, err
		}
	}

	scan, err := s.find(ctx, userName, carBrand)
	if err != nil {
		return entity.Scan{}, err
	}

	scan.CarBrand = newCarBrand
	scan.ScoreNumber = cmd.ScoreNumber

	if err = s.repo.Insert(ctx, &scan); err != nil {
		return entity.Scan{}, fmt.Errorf("repo.Insert: %w", err)
	}

	logger(ctx).Info(
		"scan updated",
		logx.Stringer(logx.FieldScanID, scan.ID),
		logx.Stringer(logx.FieldCarBrand, scan.CarBrand),
		slog.Int("score-number", scan.ScoreNumber),
	)

	return scan, nil
}

func (s *ScanService) Delete(ctx context.Context, rawUserName, rawCarBrand string) error {
	userName, carBrand, err := parsePair(rawUserName, rawCarBrand)
	if err != nil {
		return err
	}

	scan, err := s.find(ctx, userName, carBrand)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, scan); err != nil {
		return fmt.Errorf("repo.Delete: %w", err)
	}

	logger(ctx).Info("scan deleted", logx.Stringer(logx.FieldScanID, scan.ID))

	return nil
}

func (s *ScanService) find(ctx context.Context, userName value.UserName, carBrand value.CarBrand) (entity.Scan, error) {
	scan, ok, err := s.repo.FindByUserNameAndCarBrand(ctx, userName, carBrand)
	if err != nil {
		return entity.Scan{}, fmt.Errorf("repo.FindByUserNameAndCarBrand: %w", err)
	}

	if !ok {
		return entity.Scan{}, failure.NewNotFoundError(
			fmt.Sprintf("scan %q/%q not found", userName, carBrand),
			failure.WithCode(errcodes.ScanNotFound),
			failure.WithDescription("Scan not found"),
		)
	}

	return scan, nil
}

func parsePair(rawUserName, rawCarBrand string) (value.UserName, value.CarBrand, error) {
	userName, err := parseUserName(rawUserName)
	if err != nil {
		return "", "", err
	}

	carBrand, err := parseCarBrand(rawCarBrand)
	if err != nil {
		return "", "", err
	}

	return userName, carBrand, nil
}

func parseUserName(raw string) (value.UserName, error) {
	userName, err := value.ParseUserName(raw)
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseUserName: %w", err),
			failure.WithCode(errcodes.InvalidUserName),
			failure.WithDescription("userName must not be empty"),
		)
	}

	return userName, nil
}

func parseCarBrand(raw string) (value.CarBrand, error) {
	carBrand, err := value.ParseCarBrand(raw)
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseCarBrand: %w", err),
			failure.WithCode(errcodes.InvalidCarBrand),
			failure.WithDescription("carBrand must not be empty"),
		)
	}

	return carBrand, nil
}

func nonNil(scans []entity.Scan) []entity.Scan {
	if scans == nil {
		return []entity.Scan{}
	}

	return scans
}

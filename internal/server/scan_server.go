package server

import (
	"context"
	"fmt"
	"net/http"

	"scan_service/internal/domain/entity"
	service "scan_service/internal/domain/service/scan"
	"scan_service/pkg/httpx/reply"
	"scan_service/pkg/httpx/req"
	"scan_service/pkg/rest"
)

type scanService interface {
	ListByUserName(ctx context.Context, userName string) ([]entity.Scan, error)
	ListByCarBrand(ctx context.Context, carBrand string) ([]entity.Scan, error)
	List(ctx context.Context) ([]entity.Scan, error)
	Get(ctx context.Context, userName, carBrand string) (entity.Scan, error)
	Create(ctx context.Context, cmd service.CreateCommand) (entity.Scan, error)
	Update(ctx context.Context, cmd service.UpdateCommand) (entity.Scan, error)
	Delete(ctx context.Context, userName, carBrand string) error
}

type ScanServer struct {
	scanService scanService
}

func NewScanServer(scanService scanService) ScanServer {
	return ScanServer{
		scanService: scanService,
	}
}

func (s ScanServer) listScans(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	scans, err := s.scanService.List(ctx)
	if err != nil {
		return fmt.Errorf("scanService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTScans(scans))

	return nil
}

func (s ScanServer) listScansByUserName(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	scans, err := s.scanService.ListByUserName(ctx, pathParam(r, "userName"))
	if err != nil {
		return fmt.Errorf("scanService.ListByUserName: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTScans(scans))

	return nil
}

func (s ScanServer) listScansByCarBrand(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	scans, err := s.scanService.ListByCarBrand(ctx, pathParam(r, "carBrand"))
	if err != nil {
		return fmt.Errorf("scanService.ListByCarBrand: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTScans(scans))

	return nil
}

func (s ScanServer) getScan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	scan, err := s.scanService.Get(ctx, pathParam(r, "userName"), pathParam(r, "carBrand"))
	if err != nil {
		return fmt.Errorf("scanService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTScan(scan))

	return nil
}

func (s ScanServer) createScan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateScanRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	scan, err := s.scanService.Create(ctx, newCreateCommand(request))
	if err != nil {
		return fmt.Errorf("scanService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTScan(scan))

	return nil
}

func (s ScanServer) updateScan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.UpdateScanRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	scan, err := s.scanService.Update(ctx, newUpdateCommand(request))
	if err != nil {
		return fmt.Errorf("scanService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTScan(scan))

	return nil
}

func (s ScanServer) deleteScan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.scanService.Delete(ctx, pathParam(r, "userName"), pathParam(r, "carBrand")); err != nil {
		return fmt.Errorf("scanService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}

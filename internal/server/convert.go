package server

import (
	"scan_service/internal/domain/entity"
	service "scan_service/internal/domain/service/scan"
	"scan_service/pkg/lox"
	"scan_service/pkg/rest"
)

func newRESTScan(scan entity.Scan) rest.Scan {
	return rest.Scan{
		ID:          scan.ID.String(),
		UserName:    scan.UserName.String(),
		CarBrand:    scan.CarBrand.String(),
		ScoreNumber: scan.ScoreNumber,
	}
}

func newRESTScans(scans []entity.Scan) []rest.Scan {
	return lox.Map(scans, newRESTScan)
}

func newCreateCommand(request rest.CreateScanRequest) service.CreateCommand {
	return service.CreateCommand{
		UserName:    request.UserName,
		CarBrand:    request.CarBrand,
		ScoreNumber: *request.ScoreNumber,
	}
}

func newUpdateCommand(request rest.UpdateScanRequest) service.UpdateCommand {
	return service.UpdateCommand{
		UserName:    request.UserName,
		CarBrand:    request.CarBrand,
		ScoreNumber: *request.ScoreNumber,
		NewCarBrand: request.NewCarBrand,
	}
}

package persistence

import (
	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
)

// scanSchema maps a row of the scans table.
type scanSchema struct {
	ID          string `db:"id"`
	UserName    string `db:"user_name"`
	CarBrand    string `db:"car_brand"`
	ScoreNumber int    `db:"score_number"`
}

func fromScan(s entity.Scan) scanSchema {
	return scanSchema{
		ID:          s.ID.String(),
		UserName:    s.UserName.String(),
		CarBrand:    s.CarBrand.String(),
		ScoreNumber: s.ScoreNumber,
	}
}

func (s scanSchema) toDomain() entity.Scan {
	return entity.Scan{
		ID:          value.ScanID(s.ID),
		UserName:    value.UserName(s.UserName),
		CarBrand:    value.CarBrand(s.CarBrand),
		ScoreNumber: s.ScoreNumber,
	}
}

func schemasToDomain(schemas []scanSchema) []entity.Scan {
	result := make([]entity.Scan, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.toDomain())
	}

	return result
}

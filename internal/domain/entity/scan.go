package entity

import "scan_service/internal/domain/value"

// Scan links a user, a car brand and a score. The (UserName, CarBrand) pair
// identifies a scan for lookups but is not enforced to be unique.
type Scan struct {
	ID          value.ScanID
	UserName    value.UserName
	CarBrand    value.CarBrand
	ScoreNumber int
}

func NewScan(userName value.UserName, carBrand value.CarBrand, scoreNumber int) Scan {
	return Scan{
		UserName:    userName,
		CarBrand:    carBrand,
		ScoreNumber: scoreNumber,
	}
}

// Package rest holds the JSON shapes of the public HTTP API.
package rest

type Scan struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	CarBrand    string `json:"carBrand"`
	ScoreNumber int    `json:"scoreNumber"`
}

// CreateScanRequest body of POST /scans.
type CreateScanRequest struct {
	UserName    string `json:"userName"    validate:"required"`
	CarBrand    string `json:"carBrand"    validate:"required"`
	ScoreNumber *int   `json:"scoreNumber" validate:"required"`
}

// UpdateScanRequest body of PUT /scans. UserName and CarBrand identify the
// existing scan; NewCarBrand, when set, replaces its car brand.
type UpdateScanRequest struct {
	UserName    string  `json:"userName"              validate:"required"`
	CarBrand    string  `json:"carBrand"              validate:"required"`
	ScoreNumber *int    `json:"scoreNumber"           validate:"required"`
	NewCarBrand *string `json:"newCarBrand,omitempty" validate:"omitempty,min=1"`
}

// Error is the body of every non-2xx reply. SupportID is the request trace
// id.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId"`
}

type ErrorCode string

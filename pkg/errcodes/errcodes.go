package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	StoreUnavailable    failure.ErrorCode = "StoreUnavailable"

	ScanNotFound    failure.ErrorCode = "ScanNotFound"
	InvalidScanID   failure.ErrorCode = "InvalidScanID"
	InvalidUserName failure.ErrorCode = "InvalidUserName"
	InvalidCarBrand failure.ErrorCode = "InvalidCarBrand"
)

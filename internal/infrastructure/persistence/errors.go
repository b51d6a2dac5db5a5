package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"scan_service/internal/domain"
	"scan_service/pkg/errcodes"
)

// storeError wraps a driver error. Connectivity problems get the
// StoreUnavailable code, anything else is an internal error.
func storeError(err error, message string) *domain.AppError {
	if isUnavailable(err) {
		return domain.WrapError(err, errcodes.StoreUnavailable, message)
	}

	return domain.WrapError(err, errcodes.InternalServerError, message)
}

func isUnavailable(err error) bool {
	var netErr net.Error

	return errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded)
}

package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"scan_service/internal/domain"
	"scan_service/pkg/errcodes"
)

func TestAppError(t *testing.T) {
	rq := require.New(t)

	cause := errors.New("connection refused")

	err := fmt.Errorf("repo.FindAll: %w", domain.WrapError(cause, errcodes.StoreUnavailable, "failed to list scans"))

	rq.True(domain.IsAppError(err))
	rq.ErrorIs(err, cause)
	rq.EqualError(err, "repo.FindAll: failed to list scans: connection refused")

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.StoreUnavailable, code)

	_, ok = domain.GetCode(cause)
	rq.False(ok)
	rq.False(domain.IsAppError(cause))

	rq.EqualError(domain.NewError(errcodes.ScanNotFound, "scan not found"), "scan not found")
}

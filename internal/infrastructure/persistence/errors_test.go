package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"scan_service/pkg/errcodes"
)

func TestStoreError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		code string
	}{
		{
			name: "Network",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			code: errcodes.StoreUnavailable.String(),
		},
		{
			name: "Bad connection",
			err:  fmt.Errorf("query: %w", driver.ErrBadConn),
			code: errcodes.StoreUnavailable.String(),
		},
		{
			name: "Deadline",
			err:  context.DeadlineExceeded,
			code: errcodes.StoreUnavailable.String(),
		},
		{
			name: "Other",
			err:  errors.New("syntax error"),
			code: errcodes.InternalServerError.String(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			err := storeError(tc.err, "failed")

			rq.Equal(tc.code, err.Code.String())
			rq.ErrorIs(err, tc.err)
		})
	}
}

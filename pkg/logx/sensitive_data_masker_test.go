package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scan_service/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Access token",
			input:  []byte(`{"accessToken":"eyJhbGciOiJFUzI1NiIsInR5cC","refreshToken":"eyJhbGciOiJFUzI1NiIsInR5cCI6IkpXVCJ9"}`),
			output: []byte(`{"accessToken":"[MASKED]","refreshToken":"[MASKED]"}`),
		},
		{
			name:   "Scan user name",
			input:  []byte(`{"id":"42","userName":"lode","carBrand":"tesla","scoreNumber":2}`),
			output: []byte(`{"id":"42","userName":"[MASKED]","carBrand":"tesla","scoreNumber":2}`),
		},
		{
			name:   "Scan list",
			input:  []byte(`[{"userName": "lode","carBrand":"traktor"},{"userName": "johnny","carBrand":"traktor"}]`),
			output: []byte(`[{"userName": "[MASKED]","carBrand":"traktor"},{"userName": "[MASKED]","carBrand":"traktor"}]`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}

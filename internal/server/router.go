package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scan_service/pkg/logx"
	"scan_service/pkg/middlewarex"
)

type RouterOptions struct {
	LogFieldMaxLen int
}

// NewRouter wires the middleware chain in front of the API routes.
func NewRouter(s Server, opts RouterOptions) http.Handler {
	masker := logx.NewSensitiveDataMasker()

	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, opts.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, opts.LogFieldMaxLen),
		middlewarex.Metrics,
		middlewarex.Recovery,
	)

	s.RegisterRoutes(r)

	return r
}

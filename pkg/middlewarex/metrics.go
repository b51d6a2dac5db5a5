package middlewarex

import (
	"cmp"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zenazn/goji/web/mutil"

	"scan_service/pkg/metrics"
)

// Metrics counts requests by chi route pattern so that path parameters do
// not blow up label cardinality. Unmatched paths are reported as "unknown".
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := mutil.WrapWriter(w)

		next.ServeHTTP(lw, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = cmp.Or(rctx.RoutePattern(), route)
		}

		status := cmp.Or(lw.Status(), http.StatusOK)

		metrics.HTTPRequestsTotal.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route).
			Observe(time.Since(start).Seconds())
	})
}

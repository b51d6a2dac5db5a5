package server

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"scan_service/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/scans", func(r chi.Router) {
		r.Get("/", handler(s.listScans))
		r.Post("/", handler(s.createScan))
		r.Put("/", handler(s.updateScan))

		r.Route("/user/{userName}", func(r chi.Router) {
			r.Get("/", handler(s.listScansByUserName))
			r.Get("/car/{carBrand}", handler(s.getScan))
			r.Delete("/car/{carBrand}", handler(s.deleteScan))
		})

		r.Get("/{carBrand}", handler(s.listScansByCarBrand))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}

// pathParam returns a decoded path parameter. chi routes on RawPath only
// when it is set, otherwise the parameter is already decoded.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}

	return decoded
}

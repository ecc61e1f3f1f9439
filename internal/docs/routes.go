package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta Swagger UI en /docs/ y el contrato en /docs/openapi.yaml.
// /docs sin slash redirige.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/", http.StatusMovedPermanently)
	})

	r.Route("/docs", func(r chi.Router) {
		r.Get("/", SwaggerUIHandler())
		r.Get("/openapi.yaml", OpenAPIHandler())
	})
}

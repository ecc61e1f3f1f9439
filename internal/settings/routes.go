package settings

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra las rutas de ajustes.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/settings", func(route chi.Router) {
		route.Get("/", handler.Get)
		route.Put("/checkboxes/{name}", handler.SetCheckbox)
		route.Put("/default-quantity", handler.SetDefaultQuantity)
	})
}

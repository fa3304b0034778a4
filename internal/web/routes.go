package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/idphoto/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	sizesHandler := handlers.NewSizesHandler()
	exportHandler := handlers.NewExportHandler(s.exporter, s.config.Export.MaxUploadBytes(), s.logger)
	configHandler := handlers.NewConfigHandler(s.exporter, s.config.Export.MaxUploadBytes())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/config", configHandler.Get)

		// Sizes
		r.Get("/sizes", sizesHandler.List)
		r.Get("/sizes/{id}", sizesHandler.Get)
		r.Get("/sizes/{id}/plan", sizesHandler.Plan)

		// Export; the static segment wins over {id}
		r.Post("/export/original", exportHandler.Original)
		r.Post("/export/{id}", exportHandler.Export)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}` + "\n"))
	})
}

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging)

	// routes without authorization
	router.Get("/api/health", h.health)
	router.Get("/api/version", h.getServerVersion)
	router.Group(func(r chi.Router) {
		r.Use(withGZip)
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/payments/webhook", h.paymentWebhook)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/realtime", h.serveRealtime)

		r.Group(func(r chi.Router) {
			r.Use(withGZip)
			r.Route("/api/tables/{table}", func(r chi.Router) {
				r.Get("/", h.selectRows)
				r.Post("/", h.insertRow)
				r.Put("/{id}", h.updateRow)
				r.Delete("/{id}", h.deleteRow)
			})
			r.Post("/api/payments", h.createPayment)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

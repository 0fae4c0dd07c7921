package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EduardoFATECOU/sistema-login/internal/application"
)

// Handler is the HTTP adapter entrypoint for the auth and profile use-cases.
// Keeping only the application dependency here preserves clean adapter
// boundaries.
type Handler struct {
	service      *application.Service
	cookieSecure bool
}

// NewHandler constructs an HTTP handler bound to the application service.
// cookieSecure should be true whenever the app is served over TLS.
func NewHandler(service *application.Service, cookieSecure bool) *Handler {
	return &Handler{service: service, cookieSecure: cookieSecure}
}

// NewRouter registers the HTTP routes and middleware stack. Centralizing
// routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
		r.Post("/logout", handler.logout)
		r.Post("/keep-alive", handler.keepAlive)
	})

	r.Group(func(r chi.Router) {
		r.Use(handler.sessionMiddleware)
		r.Get("/profile", handler.profileGet)
		r.Post("/profile", handler.profileUpdate)
		r.Get("/users", handler.listUsers)
		r.Get("/dashboard", handler.dashboard)
	})

	return r
}

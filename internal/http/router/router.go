// Package router arma el árbol de rutas del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminctrl "github.com/dropDatabas3/chatgate/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/chatgate/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/chatgate/internal/http/controllers/health"
	"github.com/dropDatabas3/chatgate/internal/http/errors"
	mw "github.com/dropDatabas3/chatgate/internal/http/middlewares"
	"github.com/dropDatabas3/chatgate/internal/session"
)

// Deps contains everything the router needs to wire the routes.
type Deps struct {
	Auth      *authctrl.Controllers
	Providers *adminctrl.ProvidersController
	Health    *healthctrl.Controller

	Sessions *session.Issuer

	// CORSAllowedOrigins lista de origins del front. Vacío = sin CORS.
	CORSAllowedOrigins []string

	// MetricsRegistry para /metrics. Nil desactiva el endpoint.
	MetricsRegistry *prometheus.Registry
}

// New builds the service router.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, errors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, errors.ErrMethodNotAllowed)
	})

	r.Get("/healthz", d.Health.Health)

	if d.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			d.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(mw.WithNoStore())

			r.Route("/oauth", func(r chi.Router) {
				r.Get("/initiate", d.Auth.Initiate.Initiate)
				r.Get("/callback/{provider}", d.Auth.Callback.Callback)
				r.Get("/result", d.Auth.Result.Result)
			})

			r.With(mw.RequireSession()).Get("/session", d.Auth.Session.Session)
			r.Post("/logout", d.Auth.Logout.Logout)
		})

		r.Route("/admin/oauth", func(r chi.Router) {
			r.Use(mw.RequireAdmin())

			r.Get("/templates", d.Providers.Templates)
			r.Route("/providers", func(r chi.Router) {
				r.Get("/", d.Providers.List)
				r.Post("/", d.Providers.Create)
				r.Post("/validate", d.Providers.Validate)
				r.Put("/{id}", d.Providers.Update)
				r.Delete("/{id}", d.Providers.Delete)
			})
		})
	})

	// Pila global: el primer middleware de la cadena envuelve a todos los
	// demás, incluidos los handlers de 404/405.
	return mw.Chain(r,
		mw.WithRequestLog(),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSAllowedOrigins),
		mw.WithSession(d.Sessions),
	)
}

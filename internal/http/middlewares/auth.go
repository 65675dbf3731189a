package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/chatgate/internal/http/errors"
	"github.com/dropDatabas3/chatgate/internal/http/helpers"
	"github.com/dropDatabas3/chatgate/internal/session"
)

// WithSession verifica la cookie de sesión (o bearer token) y, si es
// válida, inyecta los claims en el contexto. No corta el request: las
// rutas deciden con RequireSession/RequireAdmin.
func WithSession(issuer *session.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(session.CookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					token = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if token != "" {
				if claims, err := issuer.Verify(token); err == nil {
					r = r.WithContext(setSession(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession exige una sesión válida. A diferencia del gating admin,
// responde con el envelope AppError del resto de la superficie JSON.
func RequireSession() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetSession(r.Context()) == nil {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin exige una sesión válida con isAdmin. El cuerpo del 401/403
// es el resultado estructurado que el admin UI sabe renderizar.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetSession(r.Context())
			if claims == nil {
				helpers.WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"status": "fail", "message": "Unauthorized",
				})
				return
			}
			if !claims.IsAdmin {
				helpers.WriteJSON(w, http.StatusForbidden, map[string]string{
					"status": "fail", "message": "Unauthorized",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middlewares

import "net/http"

// WithNoStore agrega Cache-Control: no-store a la respuesta.
// Los endpoints de auth nunca deben cachearse.
func WithNoStore() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("Pragma", "no-cache")
			next.ServeHTTP(w, r)
		})
	}
}

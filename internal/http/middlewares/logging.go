package middlewares

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/chatgate/internal/observability/logger"
)

// statusRecorder captura el status code escrito.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithRequestLog asigna un request_id, inyecta un logger scoped al
// contexto y loguea el request completo al terminar.
func WithRequestLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-Id")
			if reqID == "" {
				reqID = uuid.NewString()
			}

			ctx := setRequestID(r.Context(), reqID)
			log := logger.L().With(
				logger.RequestID(reqID),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			ctx = logger.ToContext(ctx, log)

			w.Header().Set("X-Request-Id", reqID)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			log.Info("request completed",
				logger.Status(rec.status),
				logger.Duration(time.Since(start)),
				logger.ClientIP(r.RemoteAddr),
			)
		})
	}
}

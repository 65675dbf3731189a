// Package middlewares contiene los decoradores HTTP del servicio y los
// helpers de contexto que inyectan.
package middlewares

import (
	"context"

	"github.com/dropDatabas3/chatgate/internal/session"
)

type ctxKey string

const (
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
	// ctxSessionKey guarda los claims de la sesión verificada
	ctxSessionKey ctxKey = "session"
)

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}

func setSession(ctx context.Context, claims *session.Claims) context.Context {
	return context.WithValue(ctx, ctxSessionKey, claims)
}

// GetSession obtiene los claims de la sesión del contexto.
// Retorna nil si no hay sesión (middleware no aplicado o cookie inválida).
func GetSession(ctx context.Context) *session.Claims {
	if v, ok := ctx.Value(ctxSessionKey).(*session.Claims); ok {
		return v
	}
	return nil
}

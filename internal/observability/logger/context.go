package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext guarda un logger en el contexto. El middleware de request lo
// usa para propagar el logger con request_id/method/path ya adjuntos.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From recupera el logger del contexto, o el singleton si no hay ninguno.
// Services y stores pueden llamar From(ctx) sin saber si el request pasó
// por el middleware.
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return L()
}

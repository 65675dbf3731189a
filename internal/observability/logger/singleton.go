package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init arma el singleton con la configuración dada. Idempotente: solo la
// primera llamada tiene efecto. Se llama una vez en el arranque de cada
// comando, antes de cualquier log.
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L devuelve el singleton. Si nadie llamó Init (tests, tooling), arma un
// logger dev con nivel info.
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// With devuelve un logger con campos fijos adicionales. Para contexto
// persistente de un componente (ej: el nombre del provider en el flow).
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync vacía los buffers pendientes. Va en un defer de main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}

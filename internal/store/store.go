// Package store expone la factory de adapters de persistencia.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/chatgate/internal/store/core"
	"github.com/dropDatabas3/chatgate/internal/store/memory"
	"github.com/dropDatabas3/chatgate/internal/store/pg"
)

// Config selección y tuning del backend.
type Config struct {
	Driver          string // "postgres" | "memory"
	DSN             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

// New crea el core.Store según el driver configurado.
func New(ctx context.Context, cfg Config) (core.Store, error) {
	switch cfg.Driver {
	case "postgres", "pg":
		return pg.New(ctx, cfg.DSN, pg.Config{
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

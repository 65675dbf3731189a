// Package health contains the health check controller.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/chatgate/internal/cache"
	"github.com/dropDatabas3/chatgate/internal/http/helpers"
	"github.com/dropDatabas3/chatgate/internal/store/core"
)

const checkTimeout = 2 * time.Second

// Controller reports service and dependency health.
type Controller struct {
	store core.Store
	cache cache.Client
}

// NewController creates a new health Controller.
func NewController(store core.Store, cacheClient cache.Client) *Controller {
	return &Controller{store: store, cache: cacheClient}
}

// Health handles GET /healthz
//
// 200 si todas las dependencias responden, 503 si alguna falla. El
// detalle por dependencia viaja en el body para el operador.
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := c.store.Ping(ctx); err != nil {
		checks["store"] = err.Error()
		healthy = false
	} else {
		checks["store"] = "ok"
	}

	if err := c.cache.Ping(ctx); err != nil {
		checks["cache"] = err.Error()
		healthy = false
	} else {
		checks["cache"] = "ok"
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	helpers.WriteJSON(w, status, map[string]any{
		"status": state,
		"checks": checks,
	})
}

package provider

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/chatgate/internal/metrics"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
)

// DefaultCacheTTL vida del snapshot de providers activos.
const DefaultCacheTTL = 5 * time.Minute

// StaticCredential credenciales estáticas (entorno) para un provider
// builtin. Solo se usan como fallback cuando el registry no responde.
type StaticCredential struct {
	ClientID     string
	ClientSecret string
}

// CacheOptions configura el ConfigCache.
type CacheOptions struct {
	// TTL del snapshot. Default: DefaultCacheTTL.
	TTL time.Duration

	// Now reloj inyectable para tests. Default: time.Now.
	Now func() time.Time

	// Fallback credenciales estáticas por nombre de provider builtin,
	// mergeadas sobre el template correspondiente si el registry falla.
	Fallback map[string]StaticCredential
}

// ConfigCache mantiene un snapshot de los providers activos para no ir
// a la base en cada intento de login. Read-mostly: lecturas concurrentes
// baratas, refresh colapsado con singleflight, invalidación explícita
// desde cada mutación del Registry.
type ConfigCache struct {
	registry *Registry
	ttl      time.Duration
	now      func() time.Time
	fallback map[string]StaticCredential

	mu        sync.RWMutex
	entries   []Definition
	fetchedAt time.Time

	sf singleflight.Group
}

func NewConfigCache(reg *Registry, opts CacheOptions) *ConfigCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &ConfigCache{
		registry: reg,
		ttl:      opts.TTL,
		now:      opts.Now,
		fallback: opts.Fallback,
	}
	reg.AttachCache(c)
	return c
}

// Active devuelve los providers activos (enabled + credenciales completas),
// con secrets descifrados. Nunca devuelve error: un registry caído degrada
// al fallback estático y, en el peor caso, a una lista vacía.
func (c *ConfigCache) Active(ctx context.Context) []Definition {
	// fetchedAt zero = sin snapshot todavía. Un snapshot vacío (cero
	// providers activos) es válido y se sirve hasta que venza el TTL.
	c.mu.RLock()
	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		out := make([]Definition, len(c.entries))
		copy(out, c.entries)
		c.mu.RUnlock()
		return out
	}
	c.mu.RUnlock()

	v, _, _ := c.sf.Do("refresh", func() (interface{}, error) {
		return c.refresh(ctx), nil
	})
	return v.([]Definition)
}

// ActiveByName busca un provider dentro del snapshot activo.
func (c *ConfigCache) ActiveByName(ctx context.Context, name string) (*Definition, bool) {
	for _, d := range c.Active(ctx) {
		if d.Name == name {
			return &d, true
		}
	}
	return nil, false
}

// ActiveByID busca por id dentro del snapshot activo.
func (c *ConfigCache) ActiveByID(ctx context.Context, id string) (*Definition, bool) {
	for _, d := range c.Active(ctx) {
		if d.ID == id {
			return &d, true
		}
	}
	return nil, false
}

// Clear descarta el snapshot. La próxima lectura refresca.
func (c *ConfigCache) Clear() {
	c.mu.Lock()
	c.entries = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

func (c *ConfigCache) refresh(ctx context.Context) []Definition {
	defs, err := c.registry.ListAll(ctx)
	if err != nil {
		metrics.ProviderCacheRefreshes.WithLabelValues("error").Inc()
		logger.From(ctx).Warn("provider cache refresh failed, using static fallback",
			logger.Component("provider.cache"), logger.Err(err))

		active := c.fallbackDefinitions()
		if len(active) == 0 {
			// Sin fallback no avanzamos fetchedAt: el próximo intento
			// vuelve a consultar el registry.
			return nil
		}
		c.storeSnapshot(active)
		return active
	}

	metrics.ProviderCacheRefreshes.WithLabelValues("ok").Inc()

	active := make([]Definition, 0, len(defs))
	for _, d := range defs {
		if d.Active() {
			active = append(active, d)
		}
	}
	c.storeSnapshot(active)
	return active
}

func (c *ConfigCache) storeSnapshot(active []Definition) {
	c.mu.Lock()
	c.entries = active
	c.fetchedAt = c.now()
	c.mu.Unlock()
}

// fallbackDefinitions merge de credenciales estáticas sobre los templates
// builtin. Solo providers conocidos con ambas credenciales presentes.
func (c *ConfigCache) fallbackDefinitions() []Definition {
	var out []Definition
	for _, t := range builtinTemplates {
		cred, ok := c.fallback[t.Name]
		if !ok || cred.ClientID == "" || cred.ClientSecret == "" {
			continue
		}
		out = append(out, Definition{
			ID:           t.Name,
			Name:         t.Name,
			DisplayName:  t.DisplayName,
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			AuthorizeURL: t.AuthorizeURL,
			TokenURL:     t.TokenURL,
			UserInfoURL:  t.UserInfoURL,
			Scope:        t.Scope,
			LogoURL:      deriveLogoURL(t.AuthorizeURL),
			Enabled:      true,
		})
	}
	return out
}

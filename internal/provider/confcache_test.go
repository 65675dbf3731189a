package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/chatgate/internal/security/secretbox"
	"github.com/dropDatabas3/chatgate/internal/store/core"
	"github.com/dropDatabas3/chatgate/internal/store/memory"
)

// fakeClock reloj manual para controlar la staleness del cache.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(t *testing.T) (*Registry, *ConfigCache, *fakeClock) {
	t.Helper()
	secretbox.UnsafeSetKeyForTests("cache-test-key")
	t.Cleanup(secretbox.UnsafeResetKeyForTests)

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	reg := NewRegistry(memory.New())
	cache := NewConfigCache(reg, CacheOptions{Now: clock.now})
	return reg, cache, clock
}

func TestActiveFiltersDisabledAndIncomplete(t *testing.T) {
	reg, cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, err := reg.Create(ctx, githubInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	disabled := githubInput()
	disabled.Name = "gitlab"
	disabled.Enabled = false
	if _, err := reg.Create(ctx, disabled); err != nil {
		t.Fatalf("Create: %v", err)
	}

	noSecret := githubInput()
	noSecret.Name = "discord"
	noSecret.ClientSecret = ""
	if _, err := reg.Create(ctx, noSecret); err != nil {
		t.Fatalf("Create: %v", err)
	}

	active := cache.Active(ctx)
	if len(active) != 1 || active[0].Name != "github" {
		t.Fatalf("Active = %+v, want only github", active)
	}

	if _, ok := cache.ActiveByName(ctx, "gitlab"); ok {
		t.Fatal("disabled provider leaked into active set")
	}
	if d, ok := cache.ActiveByName(ctx, "github"); !ok || d.ClientSecret != "shh-secret" {
		t.Fatalf("ActiveByName(github) = %+v, %v", d, ok)
	}
}

func TestActiveServesCachedUntilTTL(t *testing.T) {
	reg, cache, clock := newTestCache(t)
	ctx := context.Background()

	if _, err := reg.Create(ctx, githubInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := cache.Active(ctx); len(got) != 1 {
		t.Fatalf("Active = %d entries", len(got))
	}

	// Escritura directa al store, sin pasar por el registry: el cache
	// no se entera hasta que venza el TTL.
	st := reg.store
	rec := &core.ProviderRecord{
		ID: "x", Name: "zz-direct", DisplayName: "ZZ",
		ClientID: "c", ClientSecret: secretbox.Encrypt("s"),
		AuthorizeURL: "https://z/a", TokenURL: "https://z/t", UserInfoURL: "https://z/u",
		Enabled: true,
	}
	if err := st.InsertProvider(ctx, rec); err != nil {
		t.Fatalf("InsertProvider: %v", err)
	}

	clock.advance(2 * time.Minute)
	if got := cache.Active(ctx); len(got) != 1 {
		t.Fatalf("Active within TTL = %d entries, want stale snapshot of 1", len(got))
	}

	clock.advance(4 * time.Minute) // total > 5m
	if got := cache.Active(ctx); len(got) != 2 {
		t.Fatalf("Active after TTL = %d entries, want refreshed 2", len(got))
	}
}

func TestClearForcesRefresh(t *testing.T) {
	reg, cache, _ := newTestCache(t)
	ctx := context.Background()

	created, err := reg.Create(ctx, githubInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := cache.Active(ctx); len(got) != 1 {
		t.Fatalf("Active = %d entries", len(got))
	}

	// Deshabilitar vía registry invalida el cache: visible de inmediato.
	off := false
	if _, err := reg.Update(ctx, created.ID, Patch{Enabled: &off}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := cache.Active(ctx); len(got) != 0 {
		t.Fatalf("Active after disable = %+v, want empty", got)
	}
}

// countingStore cuenta los listados para medir round-trips a la base.
type countingStore struct {
	core.Store
	lists int
}

func (s *countingStore) ListProviders(ctx context.Context) ([]core.ProviderRecord, error) {
	s.lists++
	return s.Store.ListProviders(ctx)
}

func TestEmptySnapshotServedUntilTTL(t *testing.T) {
	secretbox.UnsafeSetKeyForTests("cache-test-key")
	t.Cleanup(secretbox.UnsafeResetKeyForTests)

	st := &countingStore{Store: memory.New()}
	reg := NewRegistry(st)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewConfigCache(reg, CacheOptions{Now: clock.now})
	ctx := context.Background()

	// Instalación sin providers: el snapshot vacío también se cachea.
	for i := 0; i < 3; i++ {
		if got := cache.Active(ctx); len(got) != 0 {
			t.Fatalf("Active = %+v, want empty", got)
		}
	}
	if st.lists != 1 {
		t.Fatalf("ListProviders calls within TTL = %d, want 1", st.lists)
	}

	clock.advance(6 * time.Minute)
	cache.Active(ctx)
	if st.lists != 2 {
		t.Fatalf("ListProviders calls after TTL = %d, want 2", st.lists)
	}
}

// brokenStore falla todo listado para simular una base caída.
type brokenStore struct{ core.Store }

func (brokenStore) ListProviders(context.Context) ([]core.ProviderRecord, error) {
	return nil, errors.New("db down")
}

func TestFallbackOnStoreFailure(t *testing.T) {
	secretbox.UnsafeSetKeyForTests("cache-test-key")
	t.Cleanup(secretbox.UnsafeResetKeyForTests)

	reg := NewRegistry(brokenStore{memory.New()})
	cache := NewConfigCache(reg, CacheOptions{
		Fallback: map[string]StaticCredential{
			"github": {ClientID: "env-cid", ClientSecret: "env-secret"},
		},
	})

	active := cache.Active(context.Background())
	if len(active) != 1 {
		t.Fatalf("Active = %+v, want github fallback", active)
	}
	d := active[0]
	if d.Name != "github" || d.ClientID != "env-cid" || !d.Active() {
		t.Fatalf("fallback definition = %+v", d)
	}
	if d.TokenURL != "https://github.com/login/oauth/access_token" {
		t.Fatalf("fallback TokenURL = %q, want template endpoint", d.TokenURL)
	}
}

func TestFallbackFailureDegradesToEmpty(t *testing.T) {
	secretbox.UnsafeSetKeyForTests("cache-test-key")
	t.Cleanup(secretbox.UnsafeResetKeyForTests)

	reg := NewRegistry(brokenStore{memory.New()})
	cache := NewConfigCache(reg, CacheOptions{})

	if active := cache.Active(context.Background()); len(active) != 0 {
		t.Fatalf("Active = %+v, want empty", active)
	}
}

func TestTemplates(t *testing.T) {
	ts := Templates()
	if len(ts) != 5 {
		t.Fatalf("Templates = %d entries, want 5", len(ts))
	}
	if ts[0].Name != "github" {
		t.Fatalf("first template = %q", ts[0].Name)
	}
	if _, ok := TemplateByName("microsoft"); !ok {
		t.Fatal("TemplateByName(microsoft) missing")
	}
	if _, ok := TemplateByName("facebook"); ok {
		t.Fatal("TemplateByName(facebook) should not exist")
	}
}

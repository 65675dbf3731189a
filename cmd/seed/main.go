// Command seed deja una instalación nueva lista para usar: grupo default,
// usuario admin y, opcionalmente, los providers builtin con credenciales
// del entorno.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/chatgate/internal/config"
	"github.com/dropDatabas3/chatgate/internal/provider"
	"github.com/dropDatabas3/chatgate/internal/security/password"
	"github.com/dropDatabas3/chatgate/internal/store"
	"github.com/dropDatabas3/chatgate/internal/store/core"
)

func strEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		configPath    = flag.String("config", "configs/config.example.yaml", "Path to YAML config")
		withProviders = flag.Bool("providers", false, "Seed builtin providers that have credentials configured")
		fromLegacy    = flag.Bool("from-legacy", false, "One-time import of legacy oauth_configs rows onto builtin templates (postgres only)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	ctx := context.Background()
	st, err := store.New(ctx, store.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN})
	if err != nil {
		log.Fatalf("store init: %v", err)
	}
	defer st.Close()

	groupID := seedDefaultGroup(ctx, st)
	seedAdmin(ctx, st, groupID)
	if *withProviders {
		seedProviders(ctx, st, cfg)
	}
	if *fromLegacy {
		importLegacy(ctx, st, cfg)
	}
	log.Println("Seed completed.")
}

func seedDefaultGroup(ctx context.Context, st core.Store) string {
	if g, err := st.FindDefaultGroup(ctx); err == nil {
		log.Printf("default group already present (%s)", g.ID)
		return g.ID
	} else if !errors.Is(err, core.ErrNotFound) {
		log.Fatalf("find default group: %v", err)
	}

	g := &core.Group{
		ID:        uuid.NewString(),
		Name:      strEnv("DEFAULT_GROUP_NAME", "Users"),
		IsDefault: true,
	}
	if err := st.InsertGroup(ctx, g); err != nil {
		log.Fatalf("insert default group: %v", err)
	}
	log.Printf("default group created (%s)", g.ID)
	return g.ID
}

func seedAdmin(ctx context.Context, st core.Store, groupID string) {
	email := strEnv("ADMIN_EMAIL", "")
	pass := strEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	if _, err := st.FindUserByEmail(ctx, email); err == nil {
		log.Printf("admin %s already present", email)
		return
	} else if !errors.Is(err, core.ErrNotFound) {
		log.Fatalf("find admin: %v", err)
	}

	hash, err := password.Hash(password.Default, pass)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	u := &core.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strEnv("ADMIN_NAME", "Admin"),
		PasswordHash: &hash,
		IsAdmin:      true,
		GroupID:      &groupID,
	}
	if err := st.InsertUser(ctx, u); err != nil {
		log.Fatalf("insert admin: %v", err)
	}
	log.Printf("admin %s created (%s)", email, u.ID)
}

// seedProviders crea los providers builtin que tengan credenciales en la
// config. Deshabilitados por defecto: el admin los enciende desde el panel.
func seedProviders(ctx context.Context, st core.Store, cfg *config.Config) {
	reg := provider.NewRegistry(st)
	for _, t := range provider.Templates() {
		cred, ok := cfg.Providers.Static[t.Name]
		if !ok || cred.ClientID == "" || cred.ClientSecret == "" {
			continue
		}
		_, err := reg.Create(ctx, provider.Input{
			Name:         t.Name,
			DisplayName:  t.DisplayName,
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			AuthorizeURL: t.AuthorizeURL,
			TokenURL:     t.TokenURL,
			UserInfoURL:  t.UserInfoURL,
			Scope:        t.Scope,
			Enabled:      false,
		})
		switch {
		case err == nil:
			log.Printf("provider %s seeded", t.Name)
		case errors.Is(err, provider.ErrDuplicateName):
			log.Printf("provider %s already present", t.Name)
		default:
			log.Fatalf("seed provider %s: %v", t.Name, err)
		}
	}
}

// importLegacy migra las filas de la tabla legacy oauth_configs al
// catálogo dinámico. Cada fila trae solo credenciales: los endpoints
// salen del template builtin del mismo nombre. Filas sin template se
// saltean (no hay endpoints que usar).
func importLegacy(ctx context.Context, st core.Store, cfg *config.Config) {
	if cfg.Storage.Driver != "postgres" && cfg.Storage.Driver != "pg" {
		log.Println("-from-legacy requires the postgres driver, skipping")
		return
	}

	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("legacy import: pgxpool: %v", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx,
		`SELECT provider, client_id, client_secret, enabled FROM oauth_configs`)
	if err != nil {
		log.Fatalf("legacy import: query oauth_configs: %v", err)
	}
	defer rows.Close()

	reg := provider.NewRegistry(st)
	for rows.Next() {
		var name, clientID, clientSecret string
		var enabled bool
		if err := rows.Scan(&name, &clientID, &clientSecret, &enabled); err != nil {
			log.Fatalf("legacy import: scan: %v", err)
		}

		t, ok := provider.TemplateByName(name)
		if !ok {
			log.Printf("legacy row %q has no builtin template, skipped", name)
			continue
		}

		_, err := reg.Create(ctx, provider.Input{
			Name:         t.Name,
			DisplayName:  t.DisplayName,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			AuthorizeURL: t.AuthorizeURL,
			TokenURL:     t.TokenURL,
			UserInfoURL:  t.UserInfoURL,
			Scope:        t.Scope,
			Enabled:      enabled,
		})
		switch {
		case err == nil:
			log.Printf("legacy provider %s imported", name)
		case errors.Is(err, provider.ErrDuplicateName):
			log.Printf("provider %s already present, legacy row ignored", name)
		default:
			log.Fatalf("legacy import %s: %v", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("legacy import: rows: %v", err)
	}
}

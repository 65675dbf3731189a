// Command migrate aplica las migraciones embebidas de Postgres.
//
// Uso:
//
//	migrate -config configs/config.example.yaml [up|down] [steps]
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/chatgate/internal/config"
	migrations "github.com/dropDatabas3/chatgate/migrations/postgres"
)

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	flag.Parse()

	_ = godotenv.Load()

	action := "up"
	steps := 0
	args := flag.Args()
	if len(args) >= 1 && args[0] != "" {
		action = strings.ToLower(args[0])
	}
	if len(args) >= 2 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			steps = n
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.Storage.DSN == "" {
		log.Fatal("storage.dsn (or DATABASE_URL) is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	var suffix string
	switch action {
	case "up":
		suffix = "_up.sql"
	case "down":
		suffix = "_down.sql"
	default:
		log.Fatalf("unknown action %q (want up|down)", action)
	}

	files, err := listSQL(suffix)
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	if len(files) == 0 {
		log.Println("No migrations found. Nothing to do.")
		return
	}

	if action == "up" {
		sort.Strings(files)
	} else {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}

	log.Printf("Applying %d %s migration(s)...", len(files), action)
	for _, f := range files {
		if err := execSQL(ctx, pool, f); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}
		log.Printf("  applied %s", f)
	}
	log.Println("Done.")
}

func listSQL(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(migrations.PostgresFS, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func execSQL(ctx context.Context, pool *pgxpool.Pool, name string) error {
	sql, err := fs.ReadFile(migrations.PostgresFS, name)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

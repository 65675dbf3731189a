// Package pg implementa core.Store sobre PostgreSQL (pgxpool).
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/store/core"
)

type Store struct{ pool *pgxpool.Pool }

// Config tuning opcional del pool.
type Config struct {
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
		pcfg.MaxConnIdleTime = cfg.ConnMaxLifetime
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	// Non-blocking startup: try to ping, but don't fail if it fails.
	// This allows the app to start even if DB is temporarily down.
	if err := pool.Ping(ctx); err != nil {
		logger.From(ctx).Warn("pg pool startup ping failed", logger.Err(err))
	} else {
		logger.From(ctx).Info("pg pool ready", logger.Int("max_conns", int(pcfg.MaxConns)))
	}

	return &Store{pool: pool}, nil
}

// Pool expone el pool interno para usos avanzados (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// mapUnique traduce violaciones de unicidad (23505) a errores del dominio.
func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return core.ErrDuplicateEmail
		case "oauth_providers_name_key":
			return core.ErrDuplicateName
		}
	}
	return err
}

// ====================== USERS ======================

const userCols = `id, email, name, image, password_hash, is_admin, group_id, created_at, updated_at`

func scanUser(row pgx.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Image, &u.PasswordHash,
		&u.IsAdmin, &u.GroupID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) InsertUser(ctx context.Context, u *core.User) error {
	const q = `
		INSERT INTO users (id, email, name, image, password_hash, is_admin, group_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q,
		u.ID, u.Email, u.Name, u.Image, u.PasswordHash, u.IsAdmin, u.GroupID,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapUnique(err)
	}
	return nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id, name, image string) error {
	// NULLIF evita pisar valores guardados con strings vacíos.
	const q = `
		UPDATE users
		SET name       = COALESCE(NULLIF($2, ''), name),
		    image      = COALESCE(NULLIF($3, ''), image),
		    updated_at = now()
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, id, name, image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ====================== GROUPS ======================

func (s *Store) FindDefaultGroup(ctx context.Context) (*core.Group, error) {
	const q = `SELECT id, name, is_default, created_at FROM groups WHERE is_default LIMIT 1`
	var g core.Group
	err := s.pool.QueryRow(ctx, q).Scan(&g.ID, &g.Name, &g.IsDefault, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) InsertGroup(ctx context.Context, g *core.Group) error {
	const q = `
		INSERT INTO groups (id, name, is_default)
		VALUES ($1, $2, $3)
		RETURNING created_at`
	return s.pool.QueryRow(ctx, q, g.ID, g.Name, g.IsDefault).Scan(&g.CreatedAt)
}

package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/chatgate/internal/store/core"
)

const providerCols = `id, name, display_name, client_id, client_secret,
	authorize_url, token_url, user_info_url, scope, logo_url, enabled,
	created_at, updated_at`

func scanProvider(row pgx.Row) (*core.ProviderRecord, error) {
	var p core.ProviderRecord
	err := row.Scan(&p.ID, &p.Name, &p.DisplayName, &p.ClientID, &p.ClientSecret,
		&p.AuthorizeURL, &p.TokenURL, &p.UserInfoURL, &p.Scope, &p.LogoURL,
		&p.Enabled, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProviders(ctx context.Context) ([]core.ProviderRecord, error) {
	const q = `SELECT ` + providerCols + ` FROM oauth_providers ORDER BY name`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.ProviderRecord
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) FindProviderByID(ctx context.Context, id string) (*core.ProviderRecord, error) {
	const q = `SELECT ` + providerCols + ` FROM oauth_providers WHERE id = $1`
	return scanProvider(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) FindProviderByName(ctx context.Context, name string) (*core.ProviderRecord, error) {
	const q = `SELECT ` + providerCols + ` FROM oauth_providers WHERE name = $1`
	return scanProvider(s.pool.QueryRow(ctx, q, name))
}

func (s *Store) InsertProvider(ctx context.Context, p *core.ProviderRecord) error {
	const q = `
		INSERT INTO oauth_providers
			(id, name, display_name, client_id, client_secret,
			 authorize_url, token_url, user_info_url, scope, logo_url, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.DisplayName, p.ClientID, p.ClientSecret,
		p.AuthorizeURL, p.TokenURL, p.UserInfoURL, p.Scope, p.LogoURL, p.Enabled,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapUnique(err)
	}
	return nil
}

func (s *Store) UpdateProvider(ctx context.Context, p *core.ProviderRecord) error {
	const q = `
		UPDATE oauth_providers
		SET name = $2, display_name = $3, client_id = $4, client_secret = $5,
		    authorize_url = $6, token_url = $7, user_info_url = $8,
		    scope = $9, logo_url = $10, enabled = $11, updated_at = now()
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q,
		p.ID, p.Name, p.DisplayName, p.ClientID, p.ClientSecret,
		p.AuthorizeURL, p.TokenURL, p.UserInfoURL, p.Scope, p.LogoURL, p.Enabled)
	if err != nil {
		return mapUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProvider(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM oauth_providers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

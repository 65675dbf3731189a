// Package account mapea perfiles externos normalizados a cuentas locales:
// buscar por email, si no existe crear con el grupo default.
package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/chatgate/internal/flow"
	"github.com/dropDatabas3/chatgate/internal/metrics"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/store/core"
)

type Resolver struct {
	store core.Store
}

func NewResolver(store core.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve devuelve la cuenta local para el perfil externo.
//   - Si ya existe una cuenta con ese email: actualiza name/image solo con
//     valores no vacíos y la devuelve. PasswordHash no se toca.
//   - Si no existe: crea una cuenta sin password, con el grupo default si
//     hay uno. La carrera create-create la gana la unique constraint de
//     email; el perdedor reintenta como lookup.
func (r *Resolver) Resolve(ctx context.Context, prof flow.Profile) (*core.User, error) {
	existing, err := r.store.FindUserByEmail(ctx, prof.Email)
	switch {
	case err == nil:
		return r.update(ctx, existing, prof)
	case errors.Is(err, core.ErrNotFound):
		return r.create(ctx, prof)
	default:
		return nil, err
	}
}

func (r *Resolver) update(ctx context.Context, u *core.User, prof flow.Profile) (*core.User, error) {
	if err := r.store.UpdateUserProfile(ctx, u.ID, prof.Name, prof.Image); err != nil {
		return nil, err
	}
	if prof.Name != "" {
		u.Name = prof.Name
	}
	if prof.Image != "" {
		u.Image = prof.Image
	}

	logger.From(ctx).Info("existing account resolved",
		logger.Component("account.resolver"),
		logger.UserID(u.ID), logger.MaskedEmail(u.Email))
	return u, nil
}

func (r *Resolver) create(ctx context.Context, prof flow.Profile) (*core.User, error) {
	name := prof.Name
	if name == "" {
		name = localPart(prof.Email)
	}

	var groupID *string
	if g, err := r.store.FindDefaultGroup(ctx); err == nil {
		groupID = &g.ID
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	u := &core.User{
		ID:      uuid.NewString(),
		Email:   prof.Email,
		Name:    name,
		Image:   prof.Image,
		GroupID: groupID,
	}

	err := r.store.InsertUser(ctx, u)
	if errors.Is(err, core.ErrDuplicateEmail) {
		// Perdimos la carrera con otro primer login del mismo email.
		winner, lookupErr := r.store.FindUserByEmail(ctx, prof.Email)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return r.update(ctx, winner, prof)
	}
	if err != nil {
		return nil, err
	}

	metrics.AccountsCreated.Inc()
	logger.From(ctx).Info("account created on first oauth login",
		logger.Component("account.resolver"),
		logger.UserID(u.ID), logger.MaskedEmail(u.Email))
	return u, nil
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

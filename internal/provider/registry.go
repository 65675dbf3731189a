package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/security/secretbox"
	"github.com/dropDatabas3/chatgate/internal/store/core"
)

// Errores del registry. Alias de los sentinels del store para que los
// callers puedan usar errors.Is sin importar ambos paquetes.
var (
	ErrNotFound      = core.ErrNotFound
	ErrDuplicateName = core.ErrDuplicateName
)

// Patch actualización parcial: solo los campos no-nil se aplican.
// Un ClientSecret presente pero vacío conserva el ciphertext guardado.
type Patch struct {
	Name         *string `json:"name,omitempty"`
	DisplayName  *string `json:"displayName,omitempty"`
	ClientID     *string `json:"clientId,omitempty"`
	ClientSecret *string `json:"clientSecret,omitempty"`
	AuthorizeURL *string `json:"authorizeUrl,omitempty"`
	TokenURL     *string `json:"tokenUrl,omitempty"`
	UserInfoURL  *string `json:"userInfoUrl,omitempty"`
	Scope        *string `json:"scope,omitempty"`
	LogoURL      *string `json:"logoUrl,omitempty"`
	Enabled      *bool   `json:"enabled,omitempty"`
}

// Registry administra el catálogo persistido de providers.
// Toda mutación invalida el ConfigCache antes de retornar.
type Registry struct {
	store core.Store
	cache interface{ Clear() }
}

func NewRegistry(store core.Store) *Registry {
	return &Registry{store: store}
}

// AttachCache registra el cache a invalidar en cada mutación.
func (r *Registry) AttachCache(c interface{ Clear() }) { r.cache = c }

func (r *Registry) invalidate() {
	if r.cache != nil {
		r.cache.Clear()
	}
}

// ListAll devuelve todos los providers con el secret descifrado.
func (r *Registry) ListAll(ctx context.Context) ([]Definition, error) {
	recs, err := r.store.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Definition, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

func (r *Registry) GetByID(ctx context.Context, id string) (*Definition, error) {
	rec, err := r.store.FindProviderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := fromRecord(*rec)
	return &d, nil
}

func (r *Registry) GetByName(ctx context.Context, name string) (*Definition, error) {
	rec, err := r.store.FindProviderByName(ctx, name)
	if err != nil {
		return nil, err
	}
	d := fromRecord(*rec)
	return &d, nil
}

// Create persiste un provider nuevo. Nombre duplicado → ErrDuplicateName.
func (r *Registry) Create(ctx context.Context, in Input) (*Definition, error) {
	if _, err := r.store.FindProviderByName(ctx, in.Name); err == nil {
		return nil, ErrDuplicateName
	}

	scope := in.Scope
	if scope == "" {
		scope = DefaultScope
	}

	rec := core.ProviderRecord{
		ID:           uuid.NewString(),
		Name:         in.Name,
		DisplayName:  in.DisplayName,
		ClientID:     in.ClientID,
		ClientSecret: secretbox.Encrypt(in.ClientSecret),
		AuthorizeURL: in.AuthorizeURL,
		TokenURL:     in.TokenURL,
		UserInfoURL:  in.UserInfoURL,
		Scope:        scope,
		LogoURL:      in.LogoURL,
		Enabled:      in.Enabled,
	}

	// La unique constraint resuelve la carrera entre el pre-check y el insert.
	if err := r.store.InsertProvider(ctx, &rec); err != nil {
		return nil, err
	}
	r.invalidate()

	logger.From(ctx).Info("oauth provider created",
		logger.Component("provider.registry"),
		logger.Provider(rec.Name), logger.ProviderID(rec.ID))

	d := fromRecord(rec)
	return &d, nil
}

// Update aplica un patch parcial. ID inexistente → ErrNotFound; cambio de
// nombre que colisiona con otro provider → ErrDuplicateName.
func (r *Registry) Update(ctx context.Context, id string, patch Patch) (*Definition, error) {
	rec, err := r.store.FindProviderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != rec.Name {
		if other, err := r.store.FindProviderByName(ctx, *patch.Name); err == nil && other.ID != id {
			return nil, ErrDuplicateName
		}
		rec.Name = *patch.Name
	}
	if patch.DisplayName != nil {
		rec.DisplayName = *patch.DisplayName
	}
	if patch.ClientID != nil {
		rec.ClientID = *patch.ClientID
	}
	if patch.ClientSecret != nil && *patch.ClientSecret != "" {
		rec.ClientSecret = secretbox.Encrypt(*patch.ClientSecret)
	}
	if patch.AuthorizeURL != nil {
		rec.AuthorizeURL = *patch.AuthorizeURL
	}
	if patch.TokenURL != nil {
		rec.TokenURL = *patch.TokenURL
	}
	if patch.UserInfoURL != nil {
		rec.UserInfoURL = *patch.UserInfoURL
	}
	if patch.Scope != nil {
		rec.Scope = *patch.Scope
	}
	if patch.LogoURL != nil {
		rec.LogoURL = *patch.LogoURL
	}
	if patch.Enabled != nil {
		rec.Enabled = *patch.Enabled
	}

	if err := r.store.UpdateProvider(ctx, rec); err != nil {
		return nil, err
	}
	r.invalidate()

	logger.From(ctx).Info("oauth provider updated",
		logger.Component("provider.registry"),
		logger.Provider(rec.Name), logger.ProviderID(rec.ID))

	d := fromRecord(*rec)
	return &d, nil
}

// Delete elimina un provider. ID inexistente → ErrNotFound.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteProvider(ctx, id); err != nil {
		return err
	}
	r.invalidate()

	logger.From(ctx).Info("oauth provider deleted",
		logger.Component("provider.registry"), logger.ProviderID(id))
	return nil
}

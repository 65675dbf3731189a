package core

import "context"

// Store define la persistencia que consume el servicio de auth.
// Todas las operaciones son transaccionales a nivel de statement.
type Store interface {
	// Users
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	InsertUser(ctx context.Context, u *User) error
	// UpdateUserProfile actualiza name/image. Valores vacíos se ignoran
	// (nunca pisa un valor guardado con uno vacío).
	UpdateUserProfile(ctx context.Context, id, name, image string) error

	// Groups
	FindDefaultGroup(ctx context.Context) (*Group, error)
	InsertGroup(ctx context.Context, g *Group) error

	// OAuth providers
	ListProviders(ctx context.Context) ([]ProviderRecord, error)
	FindProviderByID(ctx context.Context, id string) (*ProviderRecord, error)
	FindProviderByName(ctx context.Context, name string) (*ProviderRecord, error)
	InsertProvider(ctx context.Context, p *ProviderRecord) error
	UpdateProvider(ctx context.Context, p *ProviderRecord) error
	DeleteProvider(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close()
}

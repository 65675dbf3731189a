// Package memory implementa core.Store en memoria.
// Útil para desarrollo y testing; no sobrevive reinicios.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/chatgate/internal/store/core"
)

type Store struct {
	mu        sync.RWMutex
	users     map[string]*core.User
	groups    map[string]*core.Group
	providers map[string]*core.ProviderRecord
}

func New() *Store {
	return &Store{
		users:     make(map[string]*core.User),
		groups:    make(map[string]*core.Group),
		providers: make(map[string]*core.ProviderRecord),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}

// ====================== USERS ======================

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) InsertUser(ctx context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return core.ErrDuplicateEmail
		}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id, name, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.ErrNotFound
	}
	if name != "" {
		u.Name = name
	}
	if image != "" {
		u.Image = image
	}
	u.UpdatedAt = time.Now()
	return nil
}

// ====================== GROUPS ======================

func (s *Store) FindDefaultGroup(ctx context.Context) (*core.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.IsDefault {
			cp := *g
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) InsertGroup(ctx context.Context, g *core.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.CreatedAt = time.Now()
	cp := *g
	s.groups[g.ID] = &cp
	return nil
}

// ====================== PROVIDERS ======================

func (s *Store) ListProviders(ctx context.Context) ([]core.ProviderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.ProviderRecord, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) FindProviderByID(ctx context.Context, id string) (*core.ProviderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) FindProviderByName(ctx context.Context, name string) (*core.ProviderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.providers {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) InsertProvider(ctx context.Context, p *core.ProviderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.providers {
		if existing.Name == p.Name {
			return core.ErrDuplicateName
		}
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.providers[p.ID] = &cp
	return nil
}

func (s *Store) UpdateProvider(ctx context.Context, p *core.ProviderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.providers[p.ID]
	if !ok {
		return core.ErrNotFound
	}
	for id, other := range s.providers {
		if id != p.ID && other.Name == p.Name {
			return core.ErrDuplicateName
		}
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	cp := *p
	s.providers[p.ID] = &cp
	return nil
}

func (s *Store) DeleteProvider(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.providers, id)
	return nil
}

package account

import (
	"context"
	"testing"

	"github.com/dropDatabas3/chatgate/internal/flow"
	"github.com/dropDatabas3/chatgate/internal/store/core"
	"github.com/dropDatabas3/chatgate/internal/store/memory"
)

func TestResolveCreatesAccount(t *testing.T) {
	st := memory.New()
	r := NewResolver(st)
	ctx := context.Background()

	u, err := r.Resolve(ctx, flow.Profile{ID: "1", Name: "alice", Email: "a@x.com", Image: "https://img/a.png"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u.ID == "" || u.Email != "a@x.com" || u.Name != "alice" {
		t.Fatalf("user = %+v", u)
	}
	if u.PasswordHash != nil {
		t.Fatalf("PasswordHash = %v, want nil for oauth accounts", u.PasswordHash)
	}
	if u.GroupID != nil {
		t.Fatalf("GroupID = %v, want nil without default group", u.GroupID)
	}
}

func TestResolveAssignsDefaultGroup(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	if err := st.InsertGroup(ctx, &core.Group{ID: "g1", Name: "users", IsDefault: true}); err != nil {
		t.Fatalf("InsertGroup: %v", err)
	}

	u, err := NewResolver(st).Resolve(ctx, flow.Profile{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u.GroupID == nil || *u.GroupID != "g1" {
		t.Fatalf("GroupID = %v, want g1", u.GroupID)
	}
}

func TestResolveNameFallsBackToLocalPart(t *testing.T) {
	u, err := NewResolver(memory.New()).Resolve(context.Background(), flow.Profile{Email: "alice.doe@x.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u.Name != "alice.doe" {
		t.Fatalf("Name = %q, want local part of email", u.Name)
	}
}

func TestResolveSecondLoginUpdatesSameAccount(t *testing.T) {
	st := memory.New()
	r := NewResolver(st)
	ctx := context.Background()

	first, err := r.Resolve(ctx, flow.Profile{Name: "alice", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	second, err := r.Resolve(ctx, flow.Profile{Name: "alice2", Email: "a@x.com", Image: "https://img/new.png"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second login created a new account: %s != %s", second.ID, first.ID)
	}
	if second.Name != "alice2" || second.Image != "https://img/new.png" {
		t.Fatalf("second = %+v", second)
	}
}

func TestResolveNeverClobbersWithEmpty(t *testing.T) {
	st := memory.New()
	r := NewResolver(st)
	ctx := context.Background()

	if _, err := r.Resolve(ctx, flow.Profile{Name: "alice", Email: "a@x.com", Image: "https://img/a.png"}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	u, err := r.Resolve(ctx, flow.Profile{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u.Name != "alice" || u.Image != "https://img/a.png" {
		t.Fatalf("empty profile clobbered stored fields: %+v", u)
	}
}

func TestResolveDuplicateRaceRetriesAsLookup(t *testing.T) {
	st := &racingStore{Store: memory.New()}
	r := NewResolver(st)
	ctx := context.Background()

	// El primer FindUserByEmail da not-found, pero el insert choca porque
	// "alguien más" creó la cuenta en el medio.
	winner := &core.User{ID: "winner", Email: "a@x.com", Name: "first"}
	st.sneakIn = winner

	u, err := r.Resolve(ctx, flow.Profile{Name: "second", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u.ID != "winner" {
		t.Fatalf("loser did not resolve to winner account: %+v", u)
	}
}

// racingStore simula la carrera create-create: el primer lookup falla y
// recién ahí aparece la cuenta del ganador.
type racingStore struct {
	*memory.Store
	sneakIn *core.User
	lookups int
}

func (s *racingStore) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	s.lookups++
	if s.lookups == 1 && s.sneakIn != nil {
		return nil, core.ErrNotFound
	}
	return s.Store.FindUserByEmail(ctx, email)
}

func (s *racingStore) InsertUser(ctx context.Context, u *core.User) error {
	if s.sneakIn != nil {
		if err := s.Store.InsertUser(ctx, s.sneakIn); err != nil {
			return err
		}
		s.sneakIn = nil
	}
	return s.Store.InsertUser(ctx, u)
}

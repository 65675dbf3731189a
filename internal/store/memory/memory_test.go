package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/chatgate/internal/store/core"
)

func TestUserLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &core.User{ID: "u1", Email: "a@x.com", Name: "Alice"}
	if err := s.InsertUser(ctx, u); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	got, err := s.FindUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if got.ID != "u1" || got.Name != "Alice" {
		t.Fatalf("FindUserByEmail = %+v", got)
	}
	if got.PasswordHash != nil {
		t.Fatalf("PasswordHash = %v, want nil", got.PasswordHash)
	}

	// Email duplicado
	dup := &core.User{ID: "u2", Email: "a@x.com"}
	if err := s.InsertUser(ctx, dup); !errors.Is(err, core.ErrDuplicateEmail) {
		t.Fatalf("InsertUser dup: err = %v, want ErrDuplicateEmail", err)
	}
}

func TestUpdateUserProfileIgnoresEmpty(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &core.User{ID: "u1", Email: "a@x.com", Name: "Alice", Image: "http://img/a.png"}
	if err := s.InsertUser(ctx, u); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	if err := s.UpdateUserProfile(ctx, "u1", "Alicia", ""); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}

	got, err := s.FindUserByID(ctx, "u1")
	if err != nil {
		t.Fatalf("FindUserByID: %v", err)
	}
	if got.Name != "Alicia" {
		t.Fatalf("Name = %q, want %q", got.Name, "Alicia")
	}
	if got.Image != "http://img/a.png" {
		t.Fatalf("Image = %q, empty value clobbered stored one", got.Image)
	}
}

func TestDefaultGroup(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.FindDefaultGroup(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("FindDefaultGroup empty: err = %v, want ErrNotFound", err)
	}

	if err := s.InsertGroup(ctx, &core.Group{ID: "g1", Name: "users", IsDefault: true}); err != nil {
		t.Fatalf("InsertGroup: %v", err)
	}

	g, err := s.FindDefaultGroup(ctx)
	if err != nil {
		t.Fatalf("FindDefaultGroup: %v", err)
	}
	if g.ID != "g1" {
		t.Fatalf("FindDefaultGroup = %+v", g)
	}
}

func TestProviderUniqueName(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &core.ProviderRecord{ID: "p1", Name: "github", Enabled: true}
	if err := s.InsertProvider(ctx, p); err != nil {
		t.Fatalf("InsertProvider: %v", err)
	}
	if err := s.InsertProvider(ctx, &core.ProviderRecord{ID: "p2", Name: "github"}); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("InsertProvider dup: err = %v, want ErrDuplicateName", err)
	}

	// Update hacia un nombre que choca con otro provider
	if err := s.InsertProvider(ctx, &core.ProviderRecord{ID: "p3", Name: "google"}); err != nil {
		t.Fatalf("InsertProvider: %v", err)
	}
	clash := &core.ProviderRecord{ID: "p3", Name: "github"}
	if err := s.UpdateProvider(ctx, clash); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("UpdateProvider clash: err = %v, want ErrDuplicateName", err)
	}

	// Update conservando el propio nombre no choca consigo mismo
	same := &core.ProviderRecord{ID: "p1", Name: "github", DisplayName: "GitHub"}
	if err := s.UpdateProvider(ctx, same); err != nil {
		t.Fatalf("UpdateProvider same name: %v", err)
	}
}

func TestDeleteProvider(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.DeleteProvider(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("DeleteProvider missing: err = %v, want ErrNotFound", err)
	}

	if err := s.InsertProvider(ctx, &core.ProviderRecord{ID: "p1", Name: "github"}); err != nil {
		t.Fatalf("InsertProvider: %v", err)
	}
	if err := s.DeleteProvider(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProvider: %v", err)
	}
	if _, err := s.FindProviderByID(ctx, "p1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("FindProviderByID after delete: err = %v, want ErrNotFound", err)
	}
}

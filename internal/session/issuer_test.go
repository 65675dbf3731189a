package session

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dropDatabas3/chatgate/internal/store/core"
)

func testUser() *core.User {
	return &core.User{ID: "u1", Email: "a@x.com", Name: "Alice", IsAdmin: true}
}

func TestIssueAndVerify(t *testing.T) {
	i := NewIssuer([]byte("session-secret"), false)

	tok, err := i.Issue(testUser(), "github")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := i.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "a@x.com" || claims.Name != "Alice" {
		t.Fatalf("claims = %+v", claims)
	}
	if !claims.IsAdmin {
		t.Fatal("IsAdmin perdido en el round trip")
	}
	if claims.Provider != "github" {
		t.Fatalf("Provider = %q", claims.Provider)
	}

	exp := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if exp != Lifetime {
		t.Fatalf("lifetime = %v, want %v", exp, Lifetime)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	a := NewIssuer([]byte("secret-a"), false)
	b := NewIssuer([]byte("secret-b"), false)

	tok, err := a.Issue(testUser(), "github")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify foreign token: err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	i := NewIssuer([]byte("session-secret"), false)
	past := time.Now().Add(-31 * 24 * time.Hour)
	i.now = func() time.Time { return past }

	tok, err := i.Issue(testUser(), "github")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	i.now = time.Now
	if _, err := i.Verify(tok); !errors.Is(err, ErrExpired) {
		t.Fatalf("Verify expired: err = %v, want ErrExpired", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	i := NewIssuer([]byte("session-secret"), false)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := i.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestCookieAttributes(t *testing.T) {
	dev := NewIssuer([]byte("s"), false)
	c := dev.Cookie("tok")
	if c.Name != CookieName || c.Value != "tok" {
		t.Fatalf("cookie = %+v", c)
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Fatalf("cookie attrs = %+v", c)
	}
	if c.Secure {
		t.Fatal("Secure should be off outside prod")
	}
	if c.MaxAge != int(Lifetime.Seconds()) {
		t.Fatalf("MaxAge = %d", c.MaxAge)
	}

	prod := NewIssuer([]byte("s"), true)
	if !prod.Cookie("tok").Secure {
		t.Fatal("Secure should be on in prod")
	}

	del := prod.ExpiredCookie()
	if del.MaxAge != -1 || del.Value != "" {
		t.Fatalf("expired cookie = %+v", del)
	}
}

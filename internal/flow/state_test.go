package flow

import (
	"strings"
	"testing"
	"time"
)

func TestStateRoundTrip(t *testing.T) {
	s := NewStateSigner([]byte("state-secret"))

	tok, err := s.Mint("github")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := s.Verify(tok, "github"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestStateProviderMismatch(t *testing.T) {
	s := NewStateSigner([]byte("state-secret"))

	tok, err := s.Mint("github")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	err = s.Verify(tok, "google")
	if err == nil {
		t.Fatal("Verify with wrong provider should fail")
	}
	if CodeOf(err) != CodeInvalidState {
		t.Fatalf("CodeOf = %q, want %q", CodeOf(err), CodeInvalidState)
	}
}

func TestStateTampered(t *testing.T) {
	s := NewStateSigner([]byte("state-secret"))

	tok, err := s.Mint("github")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	parts := strings.Split(tok, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"
	if err := s.Verify(tampered, "github"); CodeOf(err) != CodeInvalidState {
		t.Fatalf("Verify tampered: %v", err)
	}

	// Firmado con otro secret
	other := NewStateSigner([]byte("other-secret"))
	tok2, _ := other.Mint("github")
	if err := s.Verify(tok2, "github"); CodeOf(err) != CodeInvalidState {
		t.Fatalf("Verify foreign signature: %v", err)
	}
}

func TestStateExpiry(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s := &StateSigner{secret: []byte("state-secret"), ttl: StateTTL, now: func() time.Time { return clock }}

	tok, err := s.Mint("github")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	clock = base.Add(9 * time.Minute)
	if err := s.Verify(tok, "github"); err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}

	clock = base.Add(11 * time.Minute)
	if err := s.Verify(tok, "github"); CodeOf(err) != CodeInvalidState {
		t.Fatalf("Verify after expiry: %v", err)
	}
}

func TestStateGarbage(t *testing.T) {
	s := NewStateSigner([]byte("state-secret"))
	for _, tok := range []string{"", "github:123", "a.b.c"} {
		if err := s.Verify(tok, "github"); CodeOf(err) != CodeInvalidState {
			t.Fatalf("Verify(%q): %v", tok, err)
		}
	}
}

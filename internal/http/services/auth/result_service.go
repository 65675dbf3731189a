package auth

import (
	"context"
	"errors"

	"github.com/dropDatabas3/chatgate/internal/session"
)

// ResultService redeems one-shot login codes for the session token.
type ResultService interface {
	// Redeem consumes the code. A code can be redeemed at most once.
	Redeem(ctx context.Context, code string) (*RedeemResult, error)
}

// RedeemResult contains the session behind a one-shot code.
type RedeemResult struct {
	Token  string
	Claims *session.Claims
}

// ErrResultCodeInvalid means the code is missing, expired or already used.
var ErrResultCodeInvalid = errors.New("auth: invalid or expired login code")

// Package auth implements the OAuth login services: start (authorize
// redirect), callback (code exchange + account resolution) and result
// (one-shot code redemption into a session cookie).
package auth

import "context"

// StartService handles the initiate phase of dynamic OAuth login.
type StartService interface {
	// Start resolves the provider and returns the authorization redirect URL.
	Start(ctx context.Context, req StartRequest) (*StartResult, error)
}

// StartRequest contains the parameters for starting OAuth login.
type StartRequest struct {
	// ProviderID identifies the provider: the registry id or, as a
	// convenience, its unique name.
	ProviderID string

	// BaseURL of this deployment, used to build the callback URL.
	BaseURL string
}

// StartResult contains the result of starting OAuth login.
type StartResult struct {
	RedirectURL string
}

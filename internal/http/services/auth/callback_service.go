package auth

import "context"

// CallbackService handles the provider callback: code exchange, profile
// fetch, account resolution and session issuance.
type CallbackService interface {
	// Callback completes the login and returns a one-shot result code.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error)
}

// CallbackRequest contains the callback query parameters.
type CallbackRequest struct {
	Provider   string
	State      string
	Code       string
	ErrorParam string // ?error= forwarded by the IdP, if any
	BaseURL    string
}

// CallbackResult contains the one-shot code the browser exchanges for
// the session cookie on the success page.
type CallbackResult struct {
	Code string
}

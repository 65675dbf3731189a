// Package auth contains controllers for the OAuth login endpoints.
package auth

import (
	svc "github.com/dropDatabas3/chatgate/internal/http/services/auth"
	"github.com/dropDatabas3/chatgate/internal/session"
)

// URLs son los destinos de redirect del flujo, tomados de config.
type URLs struct {
	// Login recibe los redirects de error (?error=<code>).
	Login string
	// Success recibe el código one-shot (?code=<uuid>).
	Success string
	// Landing destino final tras canjear el código.
	Landing string
}

// Controllers agrupa los controllers del dominio auth.
type Controllers struct {
	Initiate *InitiateController
	Callback *CallbackController
	Result   *ResultController
	Session  *SessionController
	Logout   *LogoutController
}

// Deps contains the services the auth controllers need.
type Deps struct {
	Start    svc.StartService
	Callback svc.CallbackService
	Result   svc.ResultService
	Sessions *session.Issuer
	URLs     URLs
}

// NewControllers creates the auth controllers aggregator.
func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Initiate: NewInitiateController(d.Start, d.URLs),
		Callback: NewCallbackController(d.Callback, d.URLs),
		Result:   NewResultController(d.Result, d.Sessions, d.URLs),
		Session:  NewSessionController(),
		Logout:   NewLogoutController(d.Sessions),
	}
}

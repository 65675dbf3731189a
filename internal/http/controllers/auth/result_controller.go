package auth

import (
	"net/http"

	svc "github.com/dropDatabas3/chatgate/internal/http/services/auth"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/session"
)

// ResultController redeems the one-shot login code for the session cookie.
type ResultController struct {
	service  svc.ResultService
	sessions *session.Issuer
	urls     URLs
}

// NewResultController creates a new ResultController.
func NewResultController(service svc.ResultService, sessions *session.Issuer, urls URLs) *ResultController {
	return &ResultController{service: service, sessions: sessions, urls: urls}
}

// Result handles GET /v1/auth/oauth/result?code={code}
//
// Éxito: setea la cookie de sesión y redirige al landing.
// Falla (código inválido, expirado o ya usado): 302 al login con
// ?error=invalid_code.
func (c *ResultController) Result(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Result"))

	res, err := c.service.Redeem(ctx, r.URL.Query().Get("code"))
	if err != nil {
		log.Warn("result redemption failed", logger.Err(err))
		redirectWithError(w, r, c.urls.Login, "invalid_code")
		return
	}

	http.SetCookie(w, c.sessions.Cookie(res.Token))
	http.Redirect(w, r, c.urls.Landing, http.StatusFound)
}

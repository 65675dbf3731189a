package auth

import (
	"net/http"

	"github.com/dropDatabas3/chatgate/internal/flow"
	"github.com/dropDatabas3/chatgate/internal/http/helpers"
	svc "github.com/dropDatabas3/chatgate/internal/http/services/auth"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
)

// InitiateController handles the OAuth initiate endpoint.
type InitiateController struct {
	service svc.StartService
	urls    URLs
}

// NewInitiateController creates a new InitiateController.
func NewInitiateController(service svc.StartService, urls URLs) *InitiateController {
	return &InitiateController{service: service, urls: urls}
}

// Initiate handles GET /v1/auth/oauth/initiate?provider_id={id}
//
// Éxito: 302 a la página de autorización del provider.
// Falla: 302 al login con ?error=<code>.
func (c *InitiateController) Initiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Initiate"))

	res, err := c.service.Start(ctx, svc.StartRequest{
		ProviderID: r.URL.Query().Get("provider_id"),
		BaseURL:    helpers.BaseURL(r),
	})
	if err != nil {
		log.Warn("initiate failed", logger.Err(err))
		redirectWithError(w, r, c.urls.Login, flow.CodeOf(err))
		return
	}

	http.Redirect(w, r, res.RedirectURL, http.StatusFound)
}

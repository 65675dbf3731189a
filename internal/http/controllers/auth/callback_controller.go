package auth

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/chatgate/internal/flow"
	"github.com/dropDatabas3/chatgate/internal/http/helpers"
	svc "github.com/dropDatabas3/chatgate/internal/http/services/auth"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
)

// CallbackController handles the provider callback endpoint.
type CallbackController struct {
	service svc.CallbackService
	urls    URLs
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(service svc.CallbackService, urls URLs) *CallbackController {
	return &CallbackController{service: service, urls: urls}
}

// Callback handles GET /v1/auth/oauth/callback/{provider}
//
// Éxito: 302 a la página de éxito con ?code=<one-shot>.
// Falla (incluido un panic): 302 al login con ?error=<code>. El browser
// del usuario nunca queda colgado en el callback.
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Callback"))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in oauth callback", logger.Any("panic", rec))
			redirectWithError(w, r, c.urls.Login, flow.CodeCallbackError)
		}
	}()

	q := r.URL.Query()
	res, err := c.service.Callback(ctx, svc.CallbackRequest{
		Provider:   chi.URLParam(r, "provider"),
		State:      q.Get("state"),
		Code:       q.Get("code"),
		ErrorParam: q.Get("error"),
		BaseURL:    helpers.BaseURL(r),
	})
	if err != nil {
		log.Warn("callback failed", logger.Err(err))
		redirectWithError(w, r, c.urls.Login, flow.CodeOf(err))
		return
	}

	u, perr := url.Parse(c.urls.Success)
	if perr != nil {
		redirectWithError(w, r, c.urls.Login, flow.CodeCallbackError)
		return
	}
	sq := u.Query()
	sq.Set("code", res.Code)
	u.RawQuery = sq.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

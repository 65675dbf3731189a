package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dropDatabas3/chatgate/internal/metrics"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/provider"
)

// IdentityProvider es la capacidad mínima que el flujo necesita de un
// provider externo. Se instancia por request a partir de la Definition
// activa: el set de providers es mutable por el admin.
type IdentityProvider interface {
	AuthorizeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (Profile, error)
}

const outboundTimeout = 10 * time.Second

// maxErrBody límite de body upstream que se loguea en fallas.
const maxErrBody = 2 << 10

type dynamicProvider struct {
	def    provider.Definition
	cfg    *oauth2.Config
	client *http.Client
}

// New arma un IdentityProvider para una Definition activa.
func New(def provider.Definition, redirectURI string) IdentityProvider {
	return &dynamicProvider{
		def: def,
		cfg: &oauth2.Config{
			ClientID:     def.ClientID,
			ClientSecret: def.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       def.Scopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:  def.AuthorizeURL,
				TokenURL: def.TokenURL,
				// Credenciales en el form body, como espera la mayoría
				// de los providers dinámicos (GitHub incluido).
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client: &http.Client{Timeout: outboundTimeout},
	}
}

func (p *dynamicProvider) AuthorizeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// Exchange canjea el código por un access token. Un solo intento: un
// timeout o non-2xx es falla terminal del callback.
func (p *dynamicProvider) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	start := time.Now()
	tok, err := p.cfg.Exchange(ctx, code)
	metrics.TokenExchangeDuration.WithLabelValues(p.def.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			// El body upstream queda en el log, nunca en el browser.
			logger.From(ctx).Error("token exchange failed",
				logger.Component("flow"), logger.Provider(p.def.Name),
				logger.Int("status", re.Response.StatusCode),
				logger.String("body", truncate(re.Body)))
		} else {
			logger.From(ctx).Error("token exchange failed",
				logger.Component("flow"), logger.Provider(p.def.Name), logger.Err(err))
		}
		return "", E(CodeTokenExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		logger.From(ctx).Error("token response without access_token",
			logger.Component("flow"), logger.Provider(p.def.Name))
		return "", E(CodeNoAccessToken, nil)
	}
	return tok.AccessToken, nil
}

// FetchProfile trae userinfo con el access token y lo normaliza.
func (p *dynamicProvider) FetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.def.UserInfoURL, nil)
	if err != nil {
		return Profile{}, E(CodeUserInfoFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		logger.From(ctx).Error("userinfo request failed",
			logger.Component("flow"), logger.Provider(p.def.Name), logger.Err(err))
		return Profile{}, E(CodeUserInfoFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.From(ctx).Error("userinfo returned non-2xx",
			logger.Component("flow"), logger.Provider(p.def.Name),
			logger.Int("status", resp.StatusCode),
			logger.String("body", truncate(body)))
		return Profile{}, E(CodeUserInfoFailed, fmt.Errorf("userinfo status %d", resp.StatusCode))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Profile{}, E(CodeUserInfoFailed, err)
	}

	prof := NormalizeProfile(raw)
	if prof.Email == "" {
		return Profile{}, E(CodeNoEmail, nil)
	}
	return prof, nil
}

func truncate(b []byte) string {
	if len(b) > maxErrBody {
		b = b[:maxErrBody]
	}
	return string(b)
}

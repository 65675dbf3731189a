package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/chatgate/internal/account"
	"github.com/dropDatabas3/chatgate/internal/cache"
	"github.com/dropDatabas3/chatgate/internal/flow"
	"github.com/dropDatabas3/chatgate/internal/metrics"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/provider"
	"github.com/dropDatabas3/chatgate/internal/session"
)

// resultKeyPrefix namespace de los códigos one-shot en el cache.
const resultKeyPrefix = "oauth:result:"

// DefaultResultTTL vida del código one-shot si no se configura otra.
const DefaultResultTTL = 5 * time.Minute

// IdentityProviderFactory construye el cliente OAuth para una Definition.
// Inyectable para tests; default flow.New.
type IdentityProviderFactory func(def provider.Definition, redirectURI string) flow.IdentityProvider

// CallbackDeps contains dependencies for the callback service.
type CallbackDeps struct {
	Providers *provider.ConfigCache
	States    *flow.StateSigner
	Accounts  *account.Resolver
	Sessions  *session.Issuer
	Cache     cache.Client

	// ResultTTL vida del código one-shot. Default: DefaultResultTTL.
	ResultTTL time.Duration

	// NewIdentityProvider override para tests. Default: flow.New.
	NewIdentityProvider IdentityProviderFactory
}

type callbackService struct {
	providers *provider.ConfigCache
	states    *flow.StateSigner
	accounts  *account.Resolver
	sessions  *session.Issuer
	cache     cache.Client
	resultTTL time.Duration
	newIDP    IdentityProviderFactory
}

// NewCallbackService creates a new CallbackService.
func NewCallbackService(d CallbackDeps) CallbackService {
	if d.ResultTTL <= 0 {
		d.ResultTTL = DefaultResultTTL
	}
	if d.NewIdentityProvider == nil {
		d.NewIdentityProvider = flow.New
	}
	return &callbackService{
		providers: d.Providers,
		states:    d.States,
		accounts:  d.Accounts,
		sessions:  d.Sessions,
		cache:     d.Cache,
		resultTTL: d.ResultTTL,
		newIDP:    d.NewIdentityProvider,
	}
}

// loginResult es el payload guardado detrás del código one-shot.
type loginResult struct {
	Token string `json:"token"`
}

// Callback ejecuta el tramo servidor del authorization-code flow. Cada
// etapa es terminal: no hay retries, el error sale como redirect con su
// código de flow. El outcome queda registrado en métricas.
func (s *callbackService) Callback(ctx context.Context, req CallbackRequest) (res *CallbackResult, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"), logger.Component("auth.callback"),
		logger.Provider(req.Provider))

	defer func() {
		outcome := "success"
		if err != nil {
			outcome = flow.CodeOf(err)
		}
		metrics.LoginAttempts.WithLabelValues(req.Provider, outcome).Inc()
	}()

	if req.ErrorParam != "" {
		// El IdP rechazó al usuario (p.ej. access_denied). El detalle va
		// al log, el browser solo ve el código genérico.
		log.Warn("idp returned error", logger.String("idp_error", req.ErrorParam))
		return nil, flow.E(flow.CodeOAuthError, errors.New(req.ErrorParam))
	}
	if req.Code == "" {
		log.Warn("callback without code")
		return nil, flow.E(flow.CodeOAuthError, nil)
	}

	def, ok := s.providers.ActiveByName(ctx, req.Provider)
	if !ok {
		log.Warn("provider not active at callback time")
		return nil, flow.E(flow.CodeProviderNotFound, nil)
	}

	if err := s.states.Verify(req.State, def.Name); err != nil {
		log.Warn("state verification failed", logger.Err(err))
		return nil, err
	}

	idp := s.newIDP(*def, CallbackURL(req.BaseURL, def.Name))

	accessToken, err := idp.Exchange(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	prof, err := idp.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.Resolve(ctx, prof)
	if err != nil {
		log.Error("account resolution failed", logger.Err(err))
		return nil, flow.E(flow.CodeCallbackError, err)
	}

	token, err := s.sessions.Issue(user, def.Name)
	if err != nil {
		log.Error("session issuance failed", logger.UserID(user.ID), logger.Err(err))
		return nil, flow.E(flow.CodeCallbackError, err)
	}

	// El token nunca viaja en la URL: se guarda detrás de un código
	// one-shot que la página de éxito canjea por la cookie.
	code := uuid.NewString()
	payload, err := json.Marshal(loginResult{Token: token})
	if err != nil {
		return nil, flow.E(flow.CodeCallbackError, err)
	}
	if err := s.cache.Set(ctx, resultKeyPrefix+code, string(payload), s.resultTTL); err != nil {
		log.Error("failed to store login result", logger.Err(err))
		return nil, flow.E(flow.CodeCallbackError, err)
	}

	log.Info("oauth login completed",
		logger.UserID(user.ID), logger.MaskedEmail(user.Email))
	return &CallbackResult{Code: code}, nil
}

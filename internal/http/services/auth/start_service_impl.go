package auth

import (
	"context"
	"strings"

	"github.com/dropDatabas3/chatgate/internal/flow"
	"github.com/dropDatabas3/chatgate/internal/metrics"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/provider"
)

// StartDeps contains dependencies for the start service.
type StartDeps struct {
	Providers *provider.ConfigCache
	States    *flow.StateSigner
}

type startService struct {
	providers *provider.ConfigCache
	states    *flow.StateSigner
}

// NewStartService creates a new StartService.
func NewStartService(d StartDeps) StartService {
	return &startService{providers: d.Providers, states: d.States}
}

// Start resuelve el provider activo, acuña el state y arma la URL de
// autorización. Todos los errores llevan un código de flow: el
// controller los traduce a un redirect ?error=<code>.
func (s *startService) Start(ctx context.Context, req StartRequest) (res *StartResult, err error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.start"))

	// El provider_id viene del query string: nunca se usa crudo como
	// label para no inflar la cardinalidad de la métrica. Hasta que el
	// id resuelva a una definición activa, el label es el sentinel.
	providerLabel := "unknown"
	defer func() {
		outcome := "initiated"
		if err != nil {
			outcome = flow.CodeOf(err)
		}
		metrics.LoginAttempts.WithLabelValues(providerLabel, outcome).Inc()
	}()

	if strings.TrimSpace(req.ProviderID) == "" {
		return nil, flow.E(flow.CodeMissingConfig, nil)
	}

	def, ok := s.providers.ActiveByID(ctx, req.ProviderID)
	if !ok {
		// El front puede mandar el nombre en lugar del id.
		def, ok = s.providers.ActiveByName(ctx, req.ProviderID)
	}
	if !ok {
		log.Warn("provider not active", logger.ProviderID(req.ProviderID))
		return nil, flow.E(flow.CodeProviderNotFound, nil)
	}
	providerLabel = def.Name

	if def.AuthorizeURL == "" || def.TokenURL == "" || def.UserInfoURL == "" {
		log.Warn("provider missing endpoints", logger.Provider(def.Name))
		return nil, flow.E(flow.CodeUnsupportedProvider, nil)
	}

	state, err := s.states.Mint(def.Name)
	if err != nil {
		log.Error("failed to mint state", logger.Provider(def.Name), logger.Err(err))
		return nil, flow.E(flow.CodeOAuthError, err)
	}

	idp := flow.New(*def, CallbackURL(req.BaseURL, def.Name))

	log.Info("oauth login started", logger.Provider(def.Name))
	return &StartResult{RedirectURL: idp.AuthorizeURL(state)}, nil
}

// CallbackURL arma la URL de callback para un provider.
func CallbackURL(baseURL, providerName string) string {
	return strings.TrimRight(baseURL, "/") + "/v1/auth/oauth/callback/" + providerName
}

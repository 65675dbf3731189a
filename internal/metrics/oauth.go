package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OAuth-related Prometheus metrics. These are defined in a standalone package to avoid
// import cycles between the flow engine and HTTP packages.

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oauth_login_attempts_total",
		Help: "Intentos de login OAuth por provider y resultado",
	}, []string{"provider", "outcome"}) // outcome: success|oauth_error|token_exchange_failed|no_access_token|user_info_failed|no_email|callback_error

	TokenExchangeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oauth_token_exchange_duration_seconds",
		Help:    "Duración del intercambio código→token por provider",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	ProviderCacheRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oauth_provider_cache_refreshes_total",
		Help: "Refrescos del cache de configuración de providers por resultado",
	}, []string{"result"}) // result: ok|error

	AccountsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "oauth_accounts_created_total",
		Help: "Cuentas creadas automáticamente en el primer login OAuth",
	})
)

// RegisterOAuth registers the oauth metrics on the given registry (or default if nil).
func RegisterOAuth(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		LoginAttempts,
		TokenExchangeDuration,
		ProviderCacheRefreshes,
		AccountsCreated,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

package auth

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dropDatabas3/chatgate/internal/cache"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/session"
)

// ResultDeps contains dependencies for the result service.
type ResultDeps struct {
	Cache    cache.Client
	Sessions *session.Issuer
}

type resultService struct {
	cache    cache.Client
	sessions *session.Issuer
}

// NewResultService creates a new ResultService.
func NewResultService(d ResultDeps) ResultService {
	return &resultService{cache: d.Cache, sessions: d.Sessions}
}

// Redeem consume el código con GetDel: dos canjes concurrentes del mismo
// código nunca reciben ambos el token. El token canjeado se re-verifica
// antes de entregarlo.
func (s *resultService) Redeem(ctx context.Context, code string) (*RedeemResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.result"))

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrResultCodeInvalid
	}

	raw, err := s.cache.GetDel(ctx, resultKeyPrefix+code)
	if err != nil {
		if cache.IsNotFound(err) {
			log.Warn("login code not found or already used")
			return nil, ErrResultCodeInvalid
		}
		log.Error("cache lookup failed", logger.Err(err))
		return nil, err
	}

	var payload loginResult
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Error("corrupt login result payload", logger.Err(err))
		return nil, ErrResultCodeInvalid
	}

	claims, err := s.sessions.Verify(payload.Token)
	if err != nil {
		log.Warn("stored session token no longer valid", logger.Err(err))
		return nil, ErrResultCodeInvalid
	}

	log.Info("login code redeemed",
		logger.UserID(claims.Subject), logger.MaskedEmail(claims.Email))
	return &RedeemResult{Token: payload.Token, Claims: claims}, nil
}

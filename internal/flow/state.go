package flow

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StateTTL ventana de validez del state entre initiate y callback.
const StateTTL = 10 * time.Minute

type stateClaims struct {
	Provider string `json:"p"`
	Nonce    string `json:"n"`
	jwt.RegisteredClaims
}

// StateSigner firma y verifica el parámetro state como JWT HS256 de vida
// corta atado a un provider. El state queda verificable sin estado del
// lado del server a través del gap del redirect.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateSigner(secret []byte) *StateSigner {
	return &StateSigner{secret: secret, ttl: StateTTL, now: time.Now}
}

// Mint emite un state para el provider dado.
func (s *StateSigner) Mint(providerName string) (string, error) {
	now := s.now()
	claims := stateClaims{
		Provider: providerName,
		Nonce:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify valida firma, expiración y que el state pertenezca al provider
// del callback. Cualquier falla → invalid_state.
func (s *StateSigner) Verify(token, providerName string) error {
	var claims stateClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return E(CodeInvalidState, err)
	}
	if claims.Provider != providerName {
		return E(CodeInvalidState, nil)
	}
	return nil
}

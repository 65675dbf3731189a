// Package session emite y verifica la credencial de sesión: JWT HS256 de
// 30 días entregado como cookie httpOnly. Stateless: sin revocación, la
// expiración es la única invalidación.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/chatgate/internal/store/core"
)

// Lifetime vida fija de la sesión.
const Lifetime = 30 * 24 * time.Hour

// CookieName nombre de la cookie de sesión.
const CookieName = "chatgate_session"

var (
	ErrInvalidToken = errors.New("session: invalid token")
	ErrExpired      = errors.New("session: expired")
)

// Claims payload de la sesión.
type Claims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"isAdmin"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Issuer firma y verifica sesiones con el secret compartido del deploy.
type Issuer struct {
	secret []byte
	prod   bool
	now    func() time.Time
}

// NewIssuer crea un Issuer. prod activa el flag Secure de la cookie.
func NewIssuer(secret []byte, prod bool) *Issuer {
	return &Issuer{secret: secret, prod: prod, now: time.Now}
}

// Issue emite el token de sesión para la cuenta.
func (i *Issuer) Issue(u *core.User, providerName string) (string, error) {
	now := i.now()
	claims := Claims{
		Email:    u.Email,
		Name:     u.Name,
		IsAdmin:  u.IsAdmin,
		Provider: providerName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify valida firma y expiración y devuelve los claims.
func (i *Issuer) Verify(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Cookie arma la cookie de sesión para el token.
func (i *Issuer) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   i.prod,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie arma la cookie que borra la sesión (logout).
func (i *Issuer) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.prod,
		SameSite: http.SameSiteLaxMode,
	}
}

// Package provider maneja el catálogo dinámico de providers OAuth:
// registry persistido (admin CRUD), templates builtin y el cache de
// configuración activa que consume el flow engine.
package provider

import (
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/chatgate/internal/security/secretbox"
	"github.com/dropDatabas3/chatgate/internal/store/core"
)

// DefaultScope se aplica cuando el provider no define scope propio.
const DefaultScope = "openid profile email"

// Definition es un provider OAuth listo para usar: el secret viene
// descifrado y el logo/scope ya están normalizados.
type Definition struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"displayName"`
	ClientID     string    `json:"clientId"`
	ClientSecret string    `json:"clientSecret,omitempty"`
	AuthorizeURL string    `json:"authorizeUrl"`
	TokenURL     string    `json:"tokenUrl"`
	UserInfoURL  string    `json:"userInfoUrl"`
	Scope        string    `json:"scope"`
	LogoURL      string    `json:"logoUrl,omitempty"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Active indica si el provider participa del flujo de autenticación:
// habilitado y con ambas credenciales presentes.
func (d Definition) Active() bool {
	return d.Enabled && d.ClientID != "" && d.ClientSecret != ""
}

// Scopes devuelve el scope como slice (separado por espacios).
func (d Definition) Scopes() []string {
	return strings.Fields(d.Scope)
}

// fromRecord descifra y normaliza una fila persistida.
// Un secret que no se puede descifrar degrada a "" (el provider queda
// inactivo en vez de romper el listado completo).
func fromRecord(rec core.ProviderRecord) Definition {
	d := Definition{
		ID:           rec.ID,
		Name:         rec.Name,
		DisplayName:  rec.DisplayName,
		ClientID:     rec.ClientID,
		ClientSecret: secretbox.DecryptOrEmpty(rec.ClientSecret),
		AuthorizeURL: rec.AuthorizeURL,
		TokenURL:     rec.TokenURL,
		UserInfoURL:  rec.UserInfoURL,
		Scope:        rec.Scope,
		LogoURL:      rec.LogoURL,
		Enabled:      rec.Enabled,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if d.Scope == "" {
		d.Scope = DefaultScope
	}
	if d.LogoURL == "" {
		d.LogoURL = deriveLogoURL(d.AuthorizeURL)
	}
	return d
}

// deriveLogoURL arma "<scheme>://<host>/favicon.ico" a partir del
// authorize URL. Si no parsea, devuelve el favicon relativo.
func deriveLogoURL(authorizeURL string) string {
	u, err := url.Parse(authorizeURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "/favicon.ico"
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}

package provider

import (
	"net/url"
	"regexp"
	"strings"
)

var nameRE = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Input son los campos escribibles de un provider, tal como llegan del
// admin. Create y Validate operan sobre esta forma.
type Input struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	AuthorizeURL string `json:"authorizeUrl"`
	TokenURL     string `json:"tokenUrl"`
	UserInfoURL  string `json:"userInfoUrl"`
	Scope        string `json:"scope"`
	LogoURL      string `json:"logoUrl"`
	Enabled      bool   `json:"enabled"`
}

// Validate chequea los campos de un provider sin tocar persistencia.
// Devuelve violaciones legibles en orden estable; slice vacío = válido.
func Validate(in Input) []string {
	var errs []string

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "Provider name is required")
	} else if !nameRE.MatchString(in.Name) {
		errs = append(errs, "Provider name can only contain lowercase letters, numbers, hyphens and underscores")
	}

	if strings.TrimSpace(in.DisplayName) == "" {
		errs = append(errs, "Display name is required")
	}

	if strings.TrimSpace(in.AuthorizeURL) == "" {
		errs = append(errs, "Authorize URL is required")
	} else if !isValidURL(in.AuthorizeURL) {
		errs = append(errs, "Invalid authorize URL format")
	}

	if strings.TrimSpace(in.TokenURL) == "" {
		errs = append(errs, "Token URL is required")
	} else if !isValidURL(in.TokenURL) {
		errs = append(errs, "Invalid token URL format")
	}

	if strings.TrimSpace(in.UserInfoURL) == "" {
		errs = append(errs, "User info URL is required")
	} else if !isValidURL(in.UserInfoURL) {
		errs = append(errs, "Invalid user info URL format")
	}

	if in.LogoURL != "" && !isValidURL(in.LogoURL) {
		errs = append(errs, "Invalid logo URL format")
	}

	return errs
}

// isValidURL acepta solo URLs absolutas.
func isValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ValidatePatch chequea solo los campos presentes de una actualización
// parcial. Un campo nil no se valida; un campo presente se valida con
// las mismas reglas que Validate.
func ValidatePatch(p Patch) []string {
	var errs []string

	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			errs = append(errs, "Provider name is required")
		} else if !nameRE.MatchString(*p.Name) {
			errs = append(errs, "Provider name can only contain lowercase letters, numbers, hyphens and underscores")
		}
	}

	if p.DisplayName != nil && strings.TrimSpace(*p.DisplayName) == "" {
		errs = append(errs, "Display name is required")
	}

	if p.AuthorizeURL != nil {
		if strings.TrimSpace(*p.AuthorizeURL) == "" {
			errs = append(errs, "Authorize URL is required")
		} else if !isValidURL(*p.AuthorizeURL) {
			errs = append(errs, "Invalid authorize URL format")
		}
	}

	if p.TokenURL != nil {
		if strings.TrimSpace(*p.TokenURL) == "" {
			errs = append(errs, "Token URL is required")
		} else if !isValidURL(*p.TokenURL) {
			errs = append(errs, "Invalid token URL format")
		}
	}

	if p.UserInfoURL != nil {
		if strings.TrimSpace(*p.UserInfoURL) == "" {
			errs = append(errs, "User info URL is required")
		} else if !isValidURL(*p.UserInfoURL) {
			errs = append(errs, "Invalid user info URL format")
		}
	}

	if p.LogoURL != nil && *p.LogoURL != "" && !isValidURL(*p.LogoURL) {
		errs = append(errs, "Invalid logo URL format")
	}

	return errs
}

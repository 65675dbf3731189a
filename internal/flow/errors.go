// Package flow implementa el motor de authorization-code: construcción de
// la URL de autorización, canje código→token, userinfo y normalización de
// perfil, para providers definidos dinámicamente.
package flow

import (
	"errors"
	"fmt"
)

// Códigos terminales del flujo. Viajan como query param opaco en el
// redirect al login; el detalle real queda solo en los logs del server.
const (
	CodeOAuthError          = "oauth_error"
	CodeProviderNotFound    = "provider_not_found"
	CodeMissingConfig       = "missing_config"
	CodeUnsupportedProvider = "unsupported_provider"
	CodeInvalidState        = "invalid_state"
	CodeTokenExchangeFailed = "token_exchange_failed"
	CodeNoAccessToken       = "no_access_token"
	CodeUserInfoFailed      = "user_info_failed"
	CodeNoEmail             = "no_email"
	CodeCallbackError       = "oauth_callback_error"
)

// Error falla terminal de una etapa del flujo. Cada etapa es un punto de
// salida: no hay retries.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flow: %s: %v", e.Code, e.Err)
	}
	return "flow: " + e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// E construye un *Error con código y causa opcional.
func E(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf extrae el código de redirect de un error del flujo.
// Errores ajenos al flujo degradan a oauth_callback_error.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return CodeCallbackError
}

package auth

import (
	"net/http"

	"github.com/dropDatabas3/chatgate/internal/http/helpers"
	"github.com/dropDatabas3/chatgate/internal/http/middlewares"
)

// SessionController exposes the current session to the front-end.
type SessionController struct{}

// NewSessionController creates a new SessionController.
func NewSessionController() *SessionController {
	return &SessionController{}
}

type sessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"isAdmin"`
	Provider string `json:"provider"`
}

// Session handles GET /v1/auth/session
//
// La ruta se monta detrás de RequireSession: acá los claims siempre están.
func (c *SessionController) Session(w http.ResponseWriter, r *http.Request) {
	claims := middlewares.GetSession(r.Context())

	resp := struct {
		User      sessionUser `json:"user"`
		ExpiresAt int64       `json:"expiresAt"`
	}{
		User: sessionUser{
			ID:       claims.Subject,
			Email:    claims.Email,
			Name:     claims.Name,
			IsAdmin:  claims.IsAdmin,
			Provider: claims.Provider,
		},
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Unix()
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

package auth

import (
	"net/http"

	"github.com/dropDatabas3/chatgate/internal/http/helpers"
	"github.com/dropDatabas3/chatgate/internal/session"
)

// LogoutController clears the session cookie.
type LogoutController struct {
	sessions *session.Issuer
}

// NewLogoutController creates a new LogoutController.
func NewLogoutController(sessions *session.Issuer) *LogoutController {
	return &LogoutController{sessions: sessions}
}

// Logout handles POST /v1/auth/logout
//
// La sesión es stateless: "cerrar sesión" es borrar la cookie. El JWT
// sigue siendo válido hasta expirar si alguien lo guardó.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, c.sessions.ExpiredCookie())
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

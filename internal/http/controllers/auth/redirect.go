package auth

import (
	"net/http"
	"net/url"
)

// redirectWithError redirige al login con ?error=<code>. El código es
// opaco: el detalle real vive en los logs del server.
func redirectWithError(w http.ResponseWriter, r *http.Request, loginURL, code string) {
	u, err := url.Parse(loginURL)
	if err != nil {
		http.Error(w, code, http.StatusInternalServerError)
		return
	}
	q := u.Query()
	q.Set("error", code)
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

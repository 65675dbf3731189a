package helpers

import (
	"net/http"
	"strings"
)

// BaseURL reconstruye el origin del request, respetando los headers del
// reverse proxy. Se usa para armar el redirect_uri del callback OAuth.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if v := r.Header.Get("X-Forwarded-Proto"); v != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.SplitN(v, ",", 2)[0]))
	}

	host := r.Host
	if v := r.Header.Get("X-Forwarded-Host"); v != "" {
		host = strings.TrimSpace(strings.SplitN(v, ",", 2)[0])
	}
	return scheme + "://" + host
}

package flow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dropDatabas3/chatgate/internal/provider"
)

func testDefinition(idpURL string) provider.Definition {
	return provider.Definition{
		ID:           "p1",
		Name:         "fakeidp",
		DisplayName:  "Fake IdP",
		ClientID:     "cid",
		ClientSecret: "csecret",
		AuthorizeURL: idpURL + "/authorize",
		TokenURL:     idpURL + "/token",
		UserInfoURL:  idpURL + "/userinfo",
		Scope:        "openid profile email",
		Enabled:      true,
	}
}

func TestAuthorizeURL(t *testing.T) {
	def := testDefinition("https://idp.example.com")
	idp := New(def, "https://app.example.com/v1/auth/oauth/callback/fakeidp")

	raw := idp.AuthorizeURL("the-state")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthorizeURL no parsea: %v", err)
	}
	if u.Host != "idp.example.com" || u.Path != "/authorize" {
		t.Fatalf("AuthorizeURL = %q", raw)
	}
	q := u.Query()
	if q.Get("client_id") != "cid" {
		t.Fatalf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("response_type") != "code" {
		t.Fatalf("response_type = %q", q.Get("response_type"))
	}
	if q.Get("state") != "the-state" {
		t.Fatalf("state = %q", q.Get("state"))
	}
	if q.Get("redirect_uri") != "https://app.example.com/v1/auth/oauth/callback/fakeidp" {
		t.Fatalf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Fatalf("scope = %q", q.Get("scope"))
	}
}

func TestExchangeSuccess(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"token_type":   "bearer",
		})
	}))
	defer srv.Close()

	idp := New(testDefinition(srv.URL), "https://app/cb")
	tok, err := idp.Exchange(context.Background(), "the-code")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if tok != "tok-123" {
		t.Fatalf("Exchange = %q", tok)
	}
	if gotForm.Get("grant_type") != "authorization_code" {
		t.Fatalf("grant_type = %q", gotForm.Get("grant_type"))
	}
	if gotForm.Get("code") != "the-code" {
		t.Fatalf("code = %q", gotForm.Get("code"))
	}
	if gotForm.Get("client_id") != "cid" || gotForm.Get("client_secret") != "csecret" {
		t.Fatalf("credenciales fuera del form body: %v", gotForm)
	}
}

func TestExchangeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	idp := New(testDefinition(srv.URL), "https://app/cb")
	_, err := idp.Exchange(context.Background(), "bad-code")
	if CodeOf(err) != CodeTokenExchangeFailed {
		t.Fatalf("Exchange: err = %v, want token_exchange_failed", err)
	}
}

func TestExchangeMissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"token_type": "bearer"})
	}))
	defer srv.Close()

	idp := New(testDefinition(srv.URL), "https://app/cb")
	_, err := idp.Exchange(context.Background(), "code")
	if CodeOf(err) != CodeNoAccessToken {
		t.Fatalf("Exchange: err = %v, want no_access_token", err)
	}
}

func TestFetchProfileSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"login":      "alice",
			"id":         12345,
			"email":      "a@x.com",
			"avatar_url": "https://img/a.png",
		})
	}))
	defer srv.Close()

	idp := New(testDefinition(srv.URL), "https://app/cb")
	prof, err := idp.FetchProfile(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if prof.Email != "a@x.com" || prof.ID != "12345" || prof.Name != "alice" {
		t.Fatalf("profile = %+v", prof)
	}
}

func TestFetchProfileNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	idp := New(testDefinition(srv.URL), "https://app/cb")
	_, err := idp.FetchProfile(context.Background(), "bad-token")
	if CodeOf(err) != CodeUserInfoFailed {
		t.Fatalf("FetchProfile: err = %v, want user_info_failed", err)
	}
}

func TestFetchProfileNoEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"login": "ghost", "id": 1})
	}))
	defer srv.Close()

	idp := New(testDefinition(srv.URL), "https://app/cb")
	_, err := idp.FetchProfile(context.Background(), "tok")
	if CodeOf(err) != CodeNoEmail {
		t.Fatalf("FetchProfile: err = %v, want no_email", err)
	}
}

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/chatgate/internal/provider"
	"github.com/dropDatabas3/chatgate/internal/security/secretbox"
	"github.com/dropDatabas3/chatgate/internal/store/memory"
)

func newTestRouter(t *testing.T) (*chi.Mux, *provider.Registry) {
	t.Helper()
	secretbox.UnsafeSetKeyForTests("test-secret")
	t.Cleanup(secretbox.UnsafeResetKeyForTests)

	reg := provider.NewRegistry(memory.New())
	ctrl := NewProvidersController(reg)

	r := chi.NewRouter()
	r.Route("/v1/admin/oauth", func(r chi.Router) {
		r.Get("/templates", ctrl.Templates)
		r.Route("/providers", func(r chi.Router) {
			r.Get("/", ctrl.List)
			r.Post("/", ctrl.Create)
			r.Post("/validate", ctrl.Validate)
			r.Put("/{id}", ctrl.Update)
			r.Delete("/{id}", ctrl.Delete)
		})
	})
	return r, reg
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func githubBody() provider.Input {
	return provider.Input{
		Name:         "github",
		DisplayName:  "GitHub",
		ClientID:     "cid",
		ClientSecret: "csecret",
		AuthorizeURL: "https://github.com/login/oauth/authorize",
		TokenURL:     "https://github.com/login/oauth/access_token",
		UserInfoURL:  "https://api.github.com/user",
		Enabled:      true,
	}
}

func TestCreateAndList(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/admin/oauth/providers/", githubBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Status   string              `json:"status"`
		Provider provider.Definition `json:"provider"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "success", created.Status)
	assert.NotEmpty(t, created.Provider.ID)
	// El secret nunca vuelve al admin.
	assert.Empty(t, created.Provider.ClientSecret)

	rec = doJSON(t, r, http.MethodGet, "/v1/admin/oauth/providers/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Providers []provider.Definition `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Providers, 1)
	assert.Equal(t, "github", listed.Providers[0].Name)
	assert.Empty(t, listed.Providers[0].ClientSecret)
}

func TestCreateValidationFails(t *testing.T) {
	r, _ := newTestRouter(t)

	body := githubBody()
	body.Name = "GitHub!" // mayúsculas y símbolo
	body.TokenURL = "not-a-url"

	rec := doJSON(t, r, http.MethodPost, "/v1/admin/oauth/providers/", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Status string   `json:"status"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fail", resp.Status)
	assert.Contains(t, resp.Errors, "Provider name can only contain lowercase letters, numbers, hyphens and underscores")
	assert.Contains(t, resp.Errors, "Invalid token URL format")
}

func TestCreateDuplicateName(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/admin/oauth/providers/", githubBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/admin/oauth/providers/", githubBody())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Provider name already exists")
}

func TestUpdateAndDelete(t *testing.T) {
	r, reg := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/admin/oauth/providers/", githubBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Provider provider.Definition `json:"provider"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Provider.ID

	rec = doJSON(t, r, http.MethodPut, "/v1/admin/oauth/providers/"+id, map[string]any{
		"displayName": "GitHub Enterprise",
		"enabled":     false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	def, err := reg.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "GitHub Enterprise", def.DisplayName)
	assert.False(t, def.Enabled)
	// El resto de los campos no se tocó.
	assert.Equal(t, "cid", def.ClientID)

	rec = doJSON(t, r, http.MethodDelete, "/v1/admin/oauth/providers/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/v1/admin/oauth/providers/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Provider not found")
}

func TestUpdateUnknownID(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPut, "/v1/admin/oauth/providers/nope", map[string]any{
		"displayName": "x",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidateAlways200(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/admin/oauth/providers/validate", provider.Input{})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string   `json:"status"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fail", resp.Status)
	assert.NotEmpty(t, resp.Errors)

	rec = doJSON(t, r, http.MethodPost, "/v1/admin/oauth/providers/validate", githubBody())
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Empty(t, resp.Errors)
}

func TestTemplates(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/v1/admin/oauth/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Templates []provider.Template `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Templates, 5)
	assert.Equal(t, "github", resp.Templates[0].Name)
}

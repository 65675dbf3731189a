// Package admin contains controllers for the provider administration API.
// Todas las respuestas usan el resultado estructurado {status, ...} que
// el panel de admin sabe renderizar.
package admin

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/chatgate/internal/http/helpers"
	"github.com/dropDatabas3/chatgate/internal/observability/logger"
	"github.com/dropDatabas3/chatgate/internal/provider"
)

// ProvidersController handles provider CRUD for admins.
type ProvidersController struct {
	registry *provider.Registry
}

// NewProvidersController creates a new ProvidersController.
func NewProvidersController(registry *provider.Registry) *ProvidersController {
	return &ProvidersController{registry: registry}
}

func fail(w http.ResponseWriter, status int, message string) {
	helpers.WriteJSON(w, status, map[string]any{
		"status":  "fail",
		"message": message,
	})
}

func failValidation(w http.ResponseWriter, errs []string) {
	helpers.WriteJSON(w, http.StatusBadRequest, map[string]any{
		"status": "fail",
		"errors": errs,
	})
}

// redact borra el secret antes de responder. El admin puede reescribirlo
// pero nunca releerlo.
func redact(d *provider.Definition) *provider.Definition {
	out := *d
	out.ClientSecret = ""
	return &out
}

// List handles GET /v1/admin/oauth/providers
func (c *ProvidersController) List(w http.ResponseWriter, r *http.Request) {
	defs, err := c.registry.ListAll(r.Context())
	if err != nil {
		logger.From(r.Context()).Error("failed to list providers",
			logger.Layer("controller"), logger.Op("Providers.List"), logger.Err(err))
		fail(w, http.StatusInternalServerError, "Failed to load providers")
		return
	}

	out := make([]*provider.Definition, 0, len(defs))
	for i := range defs {
		out = append(out, redact(&defs[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"providers": out,
	})
}

// Create handles POST /v1/admin/oauth/providers
func (c *ProvidersController) Create(w http.ResponseWriter, r *http.Request) {
	var in provider.Input
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	if errs := provider.Validate(in); len(errs) > 0 {
		failValidation(w, errs)
		return
	}

	def, err := c.registry.Create(r.Context(), in)
	if err != nil {
		switch {
		case stderrors.Is(err, provider.ErrDuplicateName):
			fail(w, http.StatusConflict, "Provider name already exists")
		default:
			logger.From(r.Context()).Error("failed to create provider",
				logger.Layer("controller"), logger.Op("Providers.Create"), logger.Err(err))
			fail(w, http.StatusInternalServerError, "Failed to create provider")
		}
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":   "success",
		"provider": redact(def),
	})
}

// Update handles PUT /v1/admin/oauth/providers/{id}
func (c *ProvidersController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch provider.Patch
	if !helpers.ReadJSON(w, r, &patch) {
		return
	}

	if errs := provider.ValidatePatch(patch); len(errs) > 0 {
		failValidation(w, errs)
		return
	}

	def, err := c.registry.Update(r.Context(), id, patch)
	if err != nil {
		switch {
		case stderrors.Is(err, provider.ErrNotFound):
			fail(w, http.StatusNotFound, "Provider not found")
		case stderrors.Is(err, provider.ErrDuplicateName):
			fail(w, http.StatusConflict, "Provider name already exists")
		default:
			logger.From(r.Context()).Error("failed to update provider",
				logger.Layer("controller"), logger.Op("Providers.Update"),
				logger.ProviderID(id), logger.Err(err))
			fail(w, http.StatusInternalServerError, "Failed to update provider")
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"provider": redact(def),
	})
}

// Delete handles DELETE /v1/admin/oauth/providers/{id}
func (c *ProvidersController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.registry.Delete(r.Context(), id); err != nil {
		switch {
		case stderrors.Is(err, provider.ErrNotFound):
			fail(w, http.StatusNotFound, "Provider not found")
		default:
			logger.From(r.Context()).Error("failed to delete provider",
				logger.Layer("controller"), logger.Op("Providers.Delete"),
				logger.ProviderID(id), logger.Err(err))
			fail(w, http.StatusInternalServerError, "Failed to delete provider")
		}
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{"status": "success"})
}

// Validate handles POST /v1/admin/oauth/providers/validate
//
// Siempre responde 200: la validación es una consulta, no una mutación.
func (c *ProvidersController) Validate(w http.ResponseWriter, r *http.Request) {
	var in provider.Input
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	errs := provider.Validate(in)
	status := "success"
	if len(errs) > 0 {
		status = "fail"
	}
	if errs == nil {
		errs = []string{}
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"status": status,
		"errors": errs,
	})
}

// Templates handles GET /v1/admin/oauth/providers/templates
func (c *ProvidersController) Templates(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"templates": provider.Templates(),
	})
}

package v1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/linkhive/linkhive/core/siteconfig"
	"github.com/linkhive/linkhive/domain"
)

func (h *Handler) listSiteConfigs(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListSiteConfigsFilter{
		IDs:        queryValues(r, "ids"),
		Name:       r.URL.Query().Get("name"),
		LoginTypes: queryValues(r, "login_types"),
		Size:       queryInt(r, "size"),
		Offset:     queryInt(r, "offset"),
	}

	records, err := h.siteConfigService.Find(r.Context(), filter)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, r, "failed to list site configs", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) createSiteConfig(w http.ResponseWriter, r *http.Request) {
	var form domain.SiteConfigForm
	if !decodeJSONBody(w, r, &form) {
		return
	}

	sc, err := h.siteConfigService.Create(r.Context(), &form)
	if err != nil {
		h.siteConfigError(w, r, err, "failed to create site config")
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

func (h *Handler) getSiteConfig(w http.ResponseWriter, r *http.Request) {
	sc, err := h.siteConfigService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.siteConfigError(w, r, err, "failed to get site config")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *Handler) updateSiteConfig(w http.ResponseWriter, r *http.Request) {
	var form domain.SiteConfigForm
	if !decodeJSONBody(w, r, &form) {
		return
	}

	sc, err := h.siteConfigService.Update(r.Context(), chi.URLParam(r, "id"), &form)
	if err != nil {
		h.siteConfigError(w, r, err, "failed to update site config")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *Handler) deleteSiteConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.siteConfigService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.siteConfigError(w, r, err, "failed to delete site config")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type probeRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) probeSiteConfig(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	sc, err := h.siteConfigService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.siteConfigError(w, r, err, "failed to get site config")
		return
	}

	result, err := h.prober.Probe(r.Context(), sc, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, siteconfig.ErrNotAPIVariant) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, r, "failed to probe site login", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) siteConfigError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verr *siteconfig.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation_failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, siteconfig.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, siteconfig.ErrDuplicateName):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, siteconfig.ErrEmptyID):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.internalError(w, r, message, err)
	}
}

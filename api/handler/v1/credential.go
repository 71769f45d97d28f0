package v1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkhive/linkhive/core/credential"
	"github.com/linkhive/linkhive/domain"
)

func (h *Handler) listCredentials(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListCredentialsFilter{
		Kinds:        queryValues(r, "kinds"),
		SiteConfigID: r.URL.Query().Get("site_config_id"),
		Size:         queryInt(r, "size"),
		Offset:       queryInt(r, "offset"),
	}

	records, err := h.credentialService.Find(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "failed to list credentials", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) createCredential(w http.ResponseWriter, r *http.Request) {
	var c domain.Credential
	if !decodeJSONBody(w, r, &c) {
		return
	}

	if err := h.credentialService.Create(r.Context(), &c); err != nil {
		h.credentialError(w, r, err, "failed to create credential")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) getCredential(w http.ResponseWriter, r *http.Request) {
	c, err := h.credentialService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.credentialError(w, r, err, "failed to get credential")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) updateCredential(w http.ResponseWriter, r *http.Request) {
	var c domain.Credential
	if !decodeJSONBody(w, r, &c) {
		return
	}
	c.ID = chi.URLParam(r, "id")

	if err := h.credentialService.Update(r.Context(), &c); err != nil {
		h.credentialError(w, r, err, "failed to update credential")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// revealCredential returns the credential with its secret fields
// decrypted. List and get endpoints only ever return ciphertext.
func (h *Handler) revealCredential(w http.ResponseWriter, r *http.Request) {
	c, err := h.credentialService.Reveal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.credentialError(w, r, err, "failed to reveal credential")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.credentialService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.credentialError(w, r, err, "failed to delete credential")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) credentialError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, credential.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, credential.ErrEmptyID):
		writeError(w, http.StatusBadRequest, err.Error())
	case
		errors.Is(err, credential.ErrDescriptionRequired),
		errors.Is(err, credential.ErrDataRequired),
		errors.Is(err, credential.ErrSiteConfigIDRequired),
		errors.Is(err, credential.ErrUsernameRequired),
		errors.Is(err, credential.ErrPasswordRequired),
		errors.Is(err, credential.ErrMinifluxURLInvalid),
		errors.Is(err, credential.ErrAPIKeyRequired),
		errors.Is(err, credential.ErrConsumerKeyRequired),
		errors.Is(err, credential.ErrConsumerSecretRequired):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.internalError(w, r, message, err)
	}
}

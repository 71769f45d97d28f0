package v1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkhive/linkhive/core/user"
	"github.com/linkhive/linkhive/domain"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListUsersFilter{
		Email:    r.URL.Query().Get("email"),
		Roles:    queryValues(r, "roles"),
		Disabled: queryBool(r, "disabled"),
		Size:     queryInt(r, "size"),
		Offset:   queryInt(r, "offset"),
	}

	records, err := h.userService.Find(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if !decodeJSONBody(w, r, &u) {
		return
	}

	if err := h.userService.Create(r.Context(), &u); err != nil {
		h.userError(w, r, err, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.userService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.userError(w, r, err, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type updateRoleRequest struct {
	Role domain.UserRole `json:"role"`
}

func (h *Handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.userService.UpdateRole(r.Context(), chi.URLParam(r, "id"), req.Role); err != nil {
		h.userError(w, r, err, "failed to update user role")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

func (h *Handler) setUserDisabled(w http.ResponseWriter, r *http.Request) {
	var req setDisabledRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.userService.SetDisabled(r.Context(), chi.URLParam(r, "id"), req.Disabled); err != nil {
		h.userError(w, r, err, "failed to update user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.userError(w, r, err, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, user.ErrEmptyID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrLastAdmin):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, err.Error())
	case
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrInvalidRole):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.internalError(w, r, message, err)
	}
}

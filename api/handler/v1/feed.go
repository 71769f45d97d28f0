package v1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkhive/linkhive/core/feed"
	"github.com/linkhive/linkhive/domain"
)

func (h *Handler) listFeeds(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListFeedsFilter{
		IDs:          queryValues(r, "ids"),
		SiteConfigID: r.URL.Query().Get("site_config_id"),
		Disabled:     queryBool(r, "disabled"),
		Size:         queryInt(r, "size"),
		Offset:       queryInt(r, "offset"),
	}

	records, err := h.feedService.Find(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "failed to list feeds", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) createFeed(w http.ResponseWriter, r *http.Request) {
	var f domain.Feed
	if !decodeJSONBody(w, r, &f) {
		return
	}

	if err := h.feedService.Create(r.Context(), &f); err != nil {
		h.feedError(w, r, err, "failed to create feed")
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *Handler) getFeed(w http.ResponseWriter, r *http.Request) {
	f, err := h.feedService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.feedError(w, r, err, "failed to get feed")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) updateFeed(w http.ResponseWriter, r *http.Request) {
	var f domain.Feed
	if !decodeJSONBody(w, r, &f) {
		return
	}
	f.ID = chi.URLParam(r, "id")

	if err := h.feedService.Update(r.Context(), &f); err != nil {
		h.feedError(w, r, err, "failed to update feed")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *Handler) deleteFeed(w http.ResponseWriter, r *http.Request) {
	if err := h.feedService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.feedError(w, r, err, "failed to delete feed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) feedError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, feed.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, feed.ErrEmptyID):
		writeError(w, http.StatusBadRequest, err.Error())
	case
		errors.Is(err, feed.ErrTitleRequired),
		errors.Is(err, feed.ErrInvalidFeedURL):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.internalError(w, r, message, err)
	}
}

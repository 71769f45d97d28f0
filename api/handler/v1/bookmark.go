package v1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkhive/linkhive/core/bookmark"
	"github.com/linkhive/linkhive/domain"
)

func (h *Handler) listBookmarks(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListBookmarksFilter{
		FeedID:   r.URL.Query().Get("feed_id"),
		Tags:     queryValues(r, "tags"),
		Archived: queryBool(r, "archived"),
		Search:   r.URL.Query().Get("q"),
		Size:     queryInt(r, "size"),
		Offset:   queryInt(r, "offset"),
	}

	records, err := h.bookmarkService.Find(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "failed to list bookmarks", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) createBookmark(w http.ResponseWriter, r *http.Request) {
	var b domain.Bookmark
	if !decodeJSONBody(w, r, &b) {
		return
	}

	if err := h.bookmarkService.Create(r.Context(), &b); err != nil {
		h.bookmarkError(w, r, err, "failed to create bookmark")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) getBookmark(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookmarkService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.bookmarkError(w, r, err, "failed to get bookmark")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) updateBookmark(w http.ResponseWriter, r *http.Request) {
	var b domain.Bookmark
	if !decodeJSONBody(w, r, &b) {
		return
	}
	b.ID = chi.URLParam(r, "id")

	if err := h.bookmarkService.Update(r.Context(), &b); err != nil {
		h.bookmarkError(w, r, err, "failed to update bookmark")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

func (h *Handler) archiveBookmark(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.bookmarkService.Archive(r.Context(), chi.URLParam(r, "id"), req.Archived); err != nil {
		h.bookmarkError(w, r, err, "failed to archive bookmark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.bookmarkService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.bookmarkError(w, r, err, "failed to delete bookmark")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) bookmarkError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, bookmark.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bookmark.ErrEmptyID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, bookmark.ErrInvalidURL):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.internalError(w, r, message, err)
	}
}

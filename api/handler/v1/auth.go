package v1

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

type tokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

type refreshRequest struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Expiry       time.Time `json:"expiry"`
}

// authLoginURL hands the frontend the provider URL that starts the
// authorization code flow. The frontend supplies its own state and
// checks it on the way back.
func (h *Handler) authLoginURL(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		writeError(w, http.StatusBadRequest, "state is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url": h.identityService.AuthCodeURL(state),
	})
}

func (h *Handler) exchangeAuthCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}
	if body.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	profile, token, err := h.identityService.Exchange(r.Context(), body.Code)
	if err != nil {
		h.logger.Warn(r.Context(), "authorization code exchange failed", "error", err)
		writeError(w, http.StatusUnauthorized, "authorization code exchange failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"token": tokenResponse{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			Expiry:       token.Expiry,
		},
	})
}

func (h *Handler) refreshAuthToken(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if !decodeJSONBody(w, r, &body) {
		return
	}
	if body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	token, err := h.identityService.Refresh(r.Context(), &oauth2.Token{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		Expiry:       body.Expiry,
	})
	if err != nil {
		h.logger.Warn(r.Context(), "token refresh failed", "error", err)
		writeError(w, http.StatusUnauthorized, "token refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	})
}

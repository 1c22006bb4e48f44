package http

import (
	"errors"
	"net/http"

	"github.com/campusworks/registrar/internal/registrar/service"
	"github.com/campusworks/registrar/pkg/httpx"
	"github.com/campusworks/registrar/pkg/slogx"
)

// RefreshHandler serves POST /auth/refresh. The refresh token arrives in
// its cookie; a successful rotation replaces both cookies and the
// presented token can never be used again.
type RefreshHandler struct {
	Sessions *service.SessionService
	Cookies  CookieConfig
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := readCookie(r, h.Cookies.RefreshName)

	pair, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			httpx.WriteError(w, http.StatusUnauthorized, "refresh token missing")
		case errors.Is(err, service.ErrInvalidToken):
			// A replayed or revoked token is treated like any other bad
			// token; clearing the cookies ends the broken session.
			h.Cookies.clearSessionCookies(w)
			httpx.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		default:
			log.Error("refresh failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	h.Cookies.setSessionCookies(w, pair)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

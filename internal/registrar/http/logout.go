package http

import (
	"net/http"

	"github.com/campusworks/registrar/internal/registrar/service"
	"github.com/campusworks/registrar/pkg/httpx"
)

// LogoutHandler serves POST /auth/logout. Logout always succeeds: the
// refresh token is revoked when possible, and the cookies are cleared
// regardless.
type LogoutHandler struct {
	Sessions *service.SessionService
	Cookies  CookieConfig
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(r.Context(), readCookie(r, h.Cookies.RefreshName))

	h.Cookies.clearSessionCookies(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

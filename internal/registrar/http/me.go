package http

import (
	"errors"
	"net/http"

	"github.com/campusworks/registrar/internal/registrar/service"
	"github.com/campusworks/registrar/pkg/httpx"
)

// MeHandler serves GET /auth/me. The response comes straight from the
// access token's claims; no store lookup happens on this path.
type MeHandler struct {
	Sessions *service.SessionService
	Cookies  CookieConfig
}

type meResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Sessions.CurrentUser(r.Context(), readCookie(r, h.Cookies.AccessName))
	if err != nil {
		if errors.Is(err, service.ErrMissingToken) {
			httpx.WriteError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		httpx.WriteError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, meResponse{
		Username: claims.Subject,
		Role:     claims.Role,
	})
}

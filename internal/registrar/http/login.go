package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campusworks/registrar/internal/registrar/service"
	"github.com/campusworks/registrar/pkg/httpx"
	"github.com/campusworks/registrar/pkg/slogx"
)

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	Credentials *service.CredentialService
	Sessions    *service.SessionService
	Cookies     CookieConfig
}

// The account identifier travels as "accountId" on the wire; internally it
// is the account's email address.
type loginRequest struct {
	AccountID    string `json:"accountId"`
	Password     string `json:"password"`
	StayLoggedIn bool   `json:"stayLoggedIn"`
}

type accountResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccountID == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "accountId and password are required")
		return
	}

	account, err := h.Credentials.Verify(ctx, req.AccountID, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			httpx.WriteError(w, http.StatusNotFound, "account not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	pair, err := h.Sessions.IssueSession(ctx, account, req.StayLoggedIn)
	if err != nil {
		log.Error("session issuance failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Cookies.setSessionCookies(w, pair)
	httpx.WriteJSON(w, http.StatusOK, accountResponse{
		Username: account.Email,
		Role:     account.Role.String(),
	})
}

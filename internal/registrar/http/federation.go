package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campusworks/registrar/internal/registrar/domain"
	"github.com/campusworks/registrar/internal/registrar/service"
	"github.com/campusworks/registrar/pkg/httpx"
	"github.com/campusworks/registrar/pkg/slogx"
)

// FederationHandler serves POST /auth/google and POST /auth/github.
type FederationHandler struct {
	Federation *service.FederationService
	Cookies    CookieConfig
}

type googleRequest struct {
	Token string `json:"token"`
}

type githubRequest struct {
	Code string `json:"code"`
}

func (h *FederationHandler) HandleGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "token is required")
		return
	}

	h.complete(w, r, func() (domain.Account, domain.TokenPair, error) {
		return h.Federation.LoginWithGoogle(r.Context(), req.Token)
	})
}

func (h *FederationHandler) HandleGitHub(w http.ResponseWriter, r *http.Request) {
	var req githubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "code is required")
		return
	}

	h.complete(w, r, func() (domain.Account, domain.TokenPair, error) {
		return h.Federation.LoginWithGitHub(r.Context(), req.Code)
	})
}

func (h *FederationHandler) complete(w http.ResponseWriter, r *http.Request, login func() (domain.Account, domain.TokenPair, error)) {
	log := slogx.FromContext(r.Context())

	account, pair, err := login()
	if err != nil {
		if errors.Is(err, service.ErrFederationFailed) {
			httpx.WriteError(w, http.StatusUnauthorized, "identity verification failed")
			return
		}
		log.Error("federated login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Cookies.setSessionCookies(w, pair)
	httpx.WriteJSON(w, http.StatusOK, accountResponse{
		Username: account.Email,
		Role:     account.Role.String(),
	})
}

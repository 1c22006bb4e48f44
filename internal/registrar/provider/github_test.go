package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusworks/registrar/internal/registrar/provider"
	"github.com/stretchr/testify/require"
)

type githubFixture struct {
	tokenStatus int
	token       string
	userEmail   string
	emails      []map[string]any
}

func newGitHubServers(t *testing.T, fx githubFixture) *provider.GitHub {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client-id", r.PostForm.Get("client_id"))

		if fx.tokenStatus != 0 {
			w.WriteHeader(fx.tokenStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": fx.token})
	}))
	t.Cleanup(tokenSrv.Close)

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer "+fx.token, r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/user":
			_ = json.NewEncoder(w).Encode(map[string]any{"email": fx.userEmail})
		case "/user/emails":
			_ = json.NewEncoder(w).Encode(fx.emails)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(apiSrv.Close)

	return &provider.GitHub{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     tokenSrv.URL,
		APIURL:       apiSrv.URL,
	}
}

func TestGitHubVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("uses public profile email when present", func(t *testing.T) {
		g := newGitHubServers(t, githubFixture{
			token:     "gho_token",
			userEmail: "Dev@Campus.edu",
		})

		email, err := g.VerifyEmail(ctx, "auth-code")
		require.NoError(t, err)
		require.Equal(t, "dev@campus.edu", email)
	})

	t.Run("falls back to primary verified email", func(t *testing.T) {
		g := newGitHubServers(t, githubFixture{
			token: "gho_token",
			emails: []map[string]any{
				{"email": "secondary@campus.edu", "primary": false, "verified": true},
				{"email": "primary@campus.edu", "primary": true, "verified": true},
			},
		})

		email, err := g.VerifyEmail(ctx, "auth-code")
		require.NoError(t, err)
		require.Equal(t, "primary@campus.edu", email)
	})

	t.Run("verified but non-primary email does not qualify", func(t *testing.T) {
		g := newGitHubServers(t, githubFixture{
			token: "gho_token",
			emails: []map[string]any{
				{"email": "unverified@campus.edu", "primary": true, "verified": false},
				{"email": "verified@campus.edu", "primary": false, "verified": true},
			},
		})

		_, err := g.VerifyEmail(ctx, "auth-code")
		require.ErrorIs(t, err, provider.ErrEmailMissing)
	})

	t.Run("failed exchange maps to ErrExchangeFailed", func(t *testing.T) {
		g := newGitHubServers(t, githubFixture{tokenStatus: http.StatusUnauthorized})

		_, err := g.VerifyEmail(ctx, "bad-code")
		require.ErrorIs(t, err, provider.ErrExchangeFailed)
	})

	t.Run("rejects empty code without calling out", func(t *testing.T) {
		g := &provider.GitHub{TokenURL: "http://127.0.0.1:1"}
		_, err := g.VerifyEmail(ctx, "")
		require.ErrorIs(t, err, provider.ErrVerificationFailed)
	})
}

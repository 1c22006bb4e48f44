package registrar_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginLogoutFlow(t *testing.T) {
	baseURL, cleanup := setupRegistrarContainer(t)
	defer cleanup()

	t.Run("student can log in, read profile, and log out", func(t *testing.T) {
		client := newAPIClient(t, baseURL)

		resp, body := client.post(t, "/auth/login", map[string]any{
			"accountId": "alice@campus.edu", "password": "alice-password",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "alice@campus.edu", body["username"])
		require.Equal(t, "Student", body["role"])

		require.NotNil(t, client.sessionCookie(t, "access_token"))
		require.NotNil(t, client.sessionCookie(t, "refresh_token"))

		resp, body = client.get(t, "/auth/me")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "Student", body["role"])

		resp, _ = client.post(t, "/auth/logout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Cookies are cleared, so the profile is gone.
		resp, _ = client.get(t, "/auth/me")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("faculty and admin log in with imported credentials", func(t *testing.T) {
		for _, tc := range []struct {
			email, password, role string
		}{
			{"prof@campus.edu", "prof-password", "Faculty"},
			{"dean@campus.edu", "dean-password", "Admin"},
		} {
			client := newAPIClient(t, baseURL)
			resp, body := client.post(t, "/auth/login", map[string]any{
				"accountId": tc.email, "password": tc.password,
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Equal(t, tc.role, body["role"])
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		client := newAPIClient(t, baseURL)
		resp, _ := client.post(t, "/auth/login", map[string]any{
			"accountId": "alice@campus.edu", "password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown account is distinguishable", func(t *testing.T) {
		client := newAPIClient(t, baseURL)
		resp, _ := client.post(t, "/auth/login", map[string]any{
			"accountId": "nobody@campus.edu", "password": "whatever",
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRefreshRotationFlow(t *testing.T) {
	baseURL, cleanup := setupRegistrarContainer(t)
	defer cleanup()

	t.Run("refresh rotates tokens and invalidates the old one", func(t *testing.T) {
		client := newAPIClient(t, baseURL)

		resp, _ := client.post(t, "/auth/login", map[string]any{
			"accountId": "alice@campus.edu", "password": "alice-password",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		original := client.sessionCookie(t, "refresh_token")
		require.NotNil(t, original)

		resp, _ = client.post(t, "/auth/refresh", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		rotated := client.sessionCookie(t, "refresh_token")
		require.NotNil(t, rotated)
		require.NotEqual(t, original.Value, rotated.Value)

		// Replaying the original token must fail even though it has not
		// expired on its own.
		replay := newAPIClient(t, baseURL)
		resp, err := replay.http.Do(mustRequest(t, http.MethodPost, baseURL+"/auth/refresh", original))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		// The rotated session keeps working.
		resp, _ = client.get(t, "/auth/me")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("refresh without a cookie is rejected", func(t *testing.T) {
		client := newAPIClient(t, baseURL)
		resp, _ := client.post(t, "/auth/refresh", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("logged-out refresh token cannot rotate", func(t *testing.T) {
		client := newAPIClient(t, baseURL)

		resp, _ := client.post(t, "/auth/login", map[string]any{
			"accountId": "prof@campus.edu", "password": "prof-password",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		refresh := client.sessionCookie(t, "refresh_token")
		require.NotNil(t, refresh)

		resp, _ = client.post(t, "/auth/logout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		replay := newAPIClient(t, baseURL)
		resp, err := replay.http.Do(mustRequest(t, http.MethodPost, baseURL+"/auth/refresh", refresh))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupRegistrarContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	resp, body := client.get(t, "/livez")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])

	resp, body = client.get(t, "/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}

func mustRequest(t *testing.T, method, url string, cookies ...*http.Cookie) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

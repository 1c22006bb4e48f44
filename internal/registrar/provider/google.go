package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const defaultGoogleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Google verifies Google ID tokens via the tokeninfo endpoint, which
// checks the signature server side so we never handle Google's keys.
type Google struct {
	TokenInfoURL string
	ClientID     string
	Client       *http.Client
}

type googleTokenInfo struct {
	Audience      string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
}

// VerifyEmail resolves an ID token to its verified email address.
func (g *Google) VerifyEmail(ctx context.Context, idToken string) (string, error) {
	if strings.TrimSpace(idToken) == "" {
		return "", ErrVerificationFailed
	}

	endpoint := g.TokenInfoURL
	if endpoint == "" {
		endpoint = defaultGoogleTokenInfoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		endpoint+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return "", err
	}

	resp, err := httpClient(g.Client).Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrVerificationFailed
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", ErrVerificationFailed
	}

	if g.ClientID != "" && info.Audience != g.ClientID {
		return "", ErrVerificationFailed
	}
	if info.Email == "" || info.EmailVerified != "true" {
		return "", ErrEmailMissing
	}

	return strings.ToLower(info.Email), nil
}

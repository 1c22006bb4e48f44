package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultGitHubTokenURL = "https://github.com/login/oauth/access_token"
	defaultGitHubAPIURL   = "https://api.github.com"
)

// ErrExchangeFailed means the authorization code could not be exchanged
// for an access token.
var ErrExchangeFailed = errors.New("provider: code exchange failed")

// GitHub exchanges an OAuth authorization code for an access token and
// looks up the user's primary verified email.
type GitHub struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIURL       string
	Client       *http.Client
}

// VerifyEmail exchanges the authorization code and resolves the account's
// email. The public profile email is preferred; when the profile hides
// it, only an address from /user/emails marked both primary and verified
// qualifies.
func (g *GitHub) VerifyEmail(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrVerificationFailed
	}

	token, err := g.exchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	email, err := g.profileEmail(ctx, token)
	if err != nil {
		return "", err
	}
	if email != "" {
		return strings.ToLower(email), nil
	}

	email, err = g.primaryEmail(ctx, token)
	if err != nil {
		return "", err
	}
	if email == "" {
		return "", ErrEmailMissing
	}
	return strings.ToLower(email), nil
}

func (g *GitHub) exchangeCode(ctx context.Context, code string) (string, error) {
	endpoint := g.TokenURL
	if endpoint == "" {
		endpoint = defaultGitHubTokenURL
	}

	form := url.Values{
		"client_id":     {g.ClientID},
		"client_secret": {g.ClientSecret},
		"code":          {code},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient(g.Client).Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrExchangeFailed
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", ErrExchangeFailed
	}
	if body.AccessToken == "" {
		return "", ErrExchangeFailed
	}
	return body.AccessToken, nil
}

func (g *GitHub) profileEmail(ctx context.Context, token string) (string, error) {
	var profile struct {
		Email string `json:"email"`
	}
	if err := g.apiGet(ctx, token, "/user", &profile); err != nil {
		return "", err
	}
	return profile.Email, nil
}

func (g *GitHub) primaryEmail(ctx context.Context, token string) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := g.apiGet(ctx, token, "/user/emails", &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

func (g *GitHub) apiGet(ctx context.Context, token, path string, out any) error {
	base := g.APIURL
	if base == "" {
		base = defaultGitHubAPIURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := httpClient(g.Client).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrVerificationFailed
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

package http

import (
	"net/http"
	"time"

	"github.com/campusworks/registrar/internal/registrar/domain"
)

// CookieConfig controls how the token pair is delivered to the browser.
// Tokens never appear in response bodies; cookies are the only channel.
type CookieConfig struct {
	AccessName  string
	RefreshName string
	Path        string
	Secure      bool
}

func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		AccessName:  "access_token",
		RefreshName: "refresh_token",
		Path:        "/",
		Secure:      true,
	}
}

// setSessionCookies writes both tokens as HttpOnly cookies. Max-Age is
// derived from each token's own expiry so the cookie dies with the token.
func (c CookieConfig) setSessionCookies(w http.ResponseWriter, pair domain.TokenPair) {
	now := time.Now()
	http.SetCookie(w, c.cookie(c.AccessName, pair.AccessToken, int(pair.AccessExpiresAt.Sub(now).Seconds())))
	http.SetCookie(w, c.cookie(c.RefreshName, pair.RefreshToken, int(pair.RefreshExpiresAt.Sub(now).Seconds())))
}

// clearSessionCookies expires both cookies immediately.
func (c CookieConfig) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(c.AccessName, "", -1))
	http.SetCookie(w, c.cookie(c.RefreshName, "", -1))
}

func (c CookieConfig) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func readCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

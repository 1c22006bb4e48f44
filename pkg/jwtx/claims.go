package jwtx

import (
	"time"

	"github.com/campusworks/registrar/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the tokenType claim. Access tokens authenticate a
// single request window; refresh tokens are exchanged for new pairs and are
// single-use under rotation.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Default TTLs for the two token kinds. The long refresh window is used for
// "stay logged in" and federated sessions.
const (
	DefaultAccessTTL      = 15 * time.Minute
	DefaultRefreshTTL     = 24 * time.Hour
	DefaultLongRefreshTTL = 30 * 24 * time.Hour
)

// SessionClaims is the fixed claim set carried by every signed token. It is
// populated once by NewSessionClaims and never mutated afterwards; there is
// deliberately no way to add ad-hoc claims to a token before sealing it.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Role of the subject account ("Student", "Faculty", "Admin").
	Role string `json:"role"`

	// TokenType distinguishes access from refresh tokens so one can never
	// be presented where the other is expected.
	TokenType string `json:"tokenType"`
}

// NewSessionClaims builds the claim set for one token. The jti is a fresh
// ULID, which is what the revocation ledger keys on. Timestamps are
// second-granularity; two issuances within the same second differ only by
// jti.
func NewSessionClaims(subject, role, kind, issuer string, ttl time.Duration, now time.Time) SessionClaims {
	now = now.Truncate(time.Second)
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		Role:      role,
		TokenType: kind,
	}
}

// ValidateIssuer checks the iss claim against the expected value. An empty
// expectation enforces nothing.
func (c *SessionClaims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token has not passed its exp claim.
func (c *SessionClaims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}

// ValidateKind ensures the tokenType claim matches the expected kind.
func (c *SessionClaims) ValidateKind(kind string) error {
	if c.TokenType != kind {
		return ErrWrongKind
	}
	return nil
}

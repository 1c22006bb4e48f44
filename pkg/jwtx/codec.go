package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed = errors.New("jwtx: malformed token")
	ErrExpired   = errors.New("jwtx: token expired")
	ErrIssuer    = errors.New("jwtx: issuer mismatch")
	ErrWrongKind = errors.New("jwtx: wrong token kind")
)

// Codec signs and verifies session tokens with a single symmetric secret and
// a fixed algorithm (HS256). The secret is injected at construction so tests
// can swap it and operators can rotate it by restarting the process; there is
// no in-process key rotation.
//
// Encoding is canonical: identical claims produce identical tokens, which
// callers may rely on for idempotence checks. Distinctness is only guaranteed
// by the jti claim.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds a codec from the signing secret. An empty secret is a
// configuration error, not something to limp along with.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}
	return &Codec{secret: []byte(secret), issuer: issuer}, nil
}

// Issuer returns the iss value this codec stamps and enforces.
func (c *Codec) Issuer() string { return c.issuer }

// Sign seals the claim set into a compact signed token string.
func (c *Codec) Sign(claims SessionClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims.
// Expiry surfaces as ErrExpired; any structural or signature problem
// surfaces as ErrMalformed. Issuer mismatch is ErrIssuer.
func (c *Codec) Verify(tokenStr string) (SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrExpired
		}
		return SessionClaims{}, ErrMalformed
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return SessionClaims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return SessionClaims{}, err
	}
	if err := claims.ValidateExpiry(time.Now().UTC()); err != nil {
		return SessionClaims{}, err
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return SessionClaims{}, ErrMalformed
	}

	return *claims, nil
}

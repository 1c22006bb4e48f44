package domain

import "time"

// TokenPair carries a freshly issued session: a short-lived access token
// and the refresh token that can mint its successor.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// RevocationEntry records a refresh token ID that must never be accepted
// again. ExpiresAt mirrors the token's own expiry so the ledger can be
// swept once the token would have died anyway.
type RevocationEntry struct {
	JTI       string
	ExpiresAt time.Time
	RevokedAt time.Time
}

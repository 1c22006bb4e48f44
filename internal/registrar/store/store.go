package store

import (
	"context"
	"errors"
	"time"

	"github.com/campusworks/registrar/internal/registrar/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists is returned when a unique constraint is violated.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Accounts is the persistence surface for portal accounts.
type Accounts interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) error
	Ping(ctx context.Context) error
}

// Ledger tracks revoked refresh token IDs.
//
// Consume is an atomic check-and-set: it records jti as revoked and
// reports whether this call was the one that did so. When several
// concurrent refreshes present the same token, exactly one caller
// observes true.
type Ledger interface {
	Consume(ctx context.Context, jti string, expiresAt time.Time) (bool, error)
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

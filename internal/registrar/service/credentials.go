package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/campusworks/registrar/internal/registrar/domain"
	"github.com/campusworks/registrar/internal/registrar/store"
	"github.com/campusworks/registrar/pkg/cryptox"
	"github.com/campusworks/registrar/pkg/slogx"
)

var (
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// CredentialService verifies a password against the stored credential for
// the account's role. Student credentials are argon2id hashes; faculty and
// admin credentials were imported from the legacy system as plaintext and
// are compared directly until that backfill lands.
type CredentialService struct {
	Accounts store.Accounts
}

// Verify returns the account on success. It distinguishes an unknown email
// (ErrAccountNotFound) from a wrong password (ErrInvalidCredentials) so
// the transport layer can map them to different statuses.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Account{}, ErrInvalidCredentials
	}

	account, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}

	switch account.Role {
	case domain.RoleStudent:
		if err := cryptox.VerifyPassword(password, account.Credential); err != nil {
			l.Info("student login failed", slog.String("email", email))
			return domain.Account{}, ErrInvalidCredentials
		}
	case domain.RoleFaculty, domain.RoleAdmin:
		// TODO: hash faculty/admin credentials once the legacy import is rehashed.
		if !cryptox.ConstantTimeEquals(password, account.Credential) {
			l.Info("staff login failed", slog.String("email", email), slog.String("role", account.Role.String()))
			return domain.Account{}, ErrInvalidCredentials
		}
	default:
		return domain.Account{}, ErrInvalidCredentials
	}

	return account, nil
}

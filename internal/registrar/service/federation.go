package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusworks/registrar/internal/registrar/domain"
	"github.com/campusworks/registrar/internal/registrar/store"
	"github.com/campusworks/registrar/pkg/cryptox"
	"github.com/campusworks/registrar/pkg/idx"
	"github.com/campusworks/registrar/pkg/slogx"
)

var ErrFederationFailed = errors.New("federation_failed")

// IdentityVerifier resolves a provider credential (Google ID token,
// GitHub authorization code) to a verified email address.
type IdentityVerifier interface {
	VerifyEmail(ctx context.Context, credential string) (string, error)
}

// FederationService signs users in via an external identity provider.
// An unknown email is provisioned as a Student with a random password,
// so a federated account can never be entered through the password form
// without a reset first.
type FederationService struct {
	Accounts store.Accounts
	Sessions *SessionService
	Google   IdentityVerifier
	GitHub   IdentityVerifier
}

func (s *FederationService) LoginWithGoogle(ctx context.Context, idToken string) (domain.Account, domain.TokenPair, error) {
	return s.login(ctx, s.Google, idToken, "google")
}

func (s *FederationService) LoginWithGitHub(ctx context.Context, code string) (domain.Account, domain.TokenPair, error) {
	return s.login(ctx, s.GitHub, code, "github")
}

func (s *FederationService) login(ctx context.Context, verifier IdentityVerifier, credential, providerName string) (domain.Account, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if verifier == nil {
		return domain.Account{}, domain.TokenPair{}, ErrFederationFailed
	}

	email, err := verifier.VerifyEmail(ctx, credential)
	if err != nil {
		l.Info("federated login rejected", slog.String("provider", providerName), slog.Any("error", err))
		// Keep the provider's sentinel visible to callers that care which
		// stage of verification fell over.
		return domain.Account{}, domain.TokenPair{}, fmt.Errorf("%w: %w", ErrFederationFailed, err)
	}

	account, err := s.resolveOrProvision(ctx, email)
	if err != nil {
		return domain.Account{}, domain.TokenPair{}, err
	}

	// Federated sessions always get the long refresh window.
	pair, err := s.Sessions.IssueSession(ctx, account, true)
	if err != nil {
		return domain.Account{}, domain.TokenPair{}, err
	}

	l.Info("federated login succeeded",
		slog.String("provider", providerName),
		slog.String("account_id", account.ID.String()))
	return account, pair, nil
}

func (s *FederationService) resolveOrProvision(ctx context.Context, email string) (domain.Account, error) {
	account, err := s.Accounts.GetByEmail(ctx, email)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, err
	}

	password, err := cryptox.GeneratePassword()
	if err != nil {
		return domain.Account{}, err
	}
	credential, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Account{}, err
	}

	now := time.Now().Unix()
	account = domain.Account{
		ID:         idx.New(),
		Email:      email,
		Credential: credential,
		Role:       domain.RoleStudent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Accounts.Create(ctx, account); err != nil {
		// Lost a provisioning race; the other writer's row wins.
		if errors.Is(err, store.ErrAlreadyExists) {
			return s.Accounts.GetByEmail(ctx, email)
		}
		return domain.Account{}, err
	}
	return account, nil
}

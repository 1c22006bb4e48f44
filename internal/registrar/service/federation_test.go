package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/campusworks/registrar/internal/registrar/domain"
	"github.com/campusworks/registrar/internal/registrar/provider"
	"github.com/campusworks/registrar/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	email string
	err   error
}

func (v *stubVerifier) VerifyEmail(ctx context.Context, credential string) (string, error) {
	return v.email, v.err
}

func TestFederatedLogin(t *testing.T) {
	s := newTestStore(t)
	sessions := newSessionService(t, s)
	ctx := context.Background()

	t.Run("provisions unknown email as student", func(t *testing.T) {
		svc := &FederationService{
			Accounts: s.Accounts(),
			Sessions: sessions,
			Google:   &stubVerifier{email: "newcomer@campus.edu"},
		}

		account, pair, err := svc.LoginWithGoogle(ctx, "id-token")
		require.NoError(t, err)
		require.Equal(t, domain.RoleStudent, account.Role)
		require.Equal(t, "newcomer@campus.edu", account.Email)
		require.NotEmpty(t, pair.AccessToken)

		// The provisioned credential is an argon2id hash, never plaintext.
		require.True(t, strings.HasPrefix(account.Credential, "$argon2id$"))

		stored, err := s.Accounts().GetByEmail(ctx, "newcomer@campus.edu")
		require.NoError(t, err)
		require.Equal(t, account.ID, stored.ID)
	})

	t.Run("reuses existing account regardless of role", func(t *testing.T) {
		existing := seedAccount(t, s, domain.RoleFaculty, "staff-pw")

		svc := &FederationService{
			Accounts: s.Accounts(),
			Sessions: sessions,
			GitHub:   &stubVerifier{email: existing.Email},
		}

		account, _, err := svc.LoginWithGitHub(ctx, "oauth-code")
		require.NoError(t, err)
		require.Equal(t, existing.ID, account.ID)
		require.Equal(t, domain.RoleFaculty, account.Role)
	})

	t.Run("federated sessions get the long refresh window", func(t *testing.T) {
		svc := &FederationService{
			Accounts: s.Accounts(),
			Sessions: sessions,
			Google:   &stubVerifier{email: "longwindow@campus.edu"},
		}

		_, pair, err := svc.LoginWithGoogle(ctx, "id-token")
		require.NoError(t, err)

		claims, err := sessions.Codec.Verify(pair.RefreshToken)
		require.NoError(t, err)
		window := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
		require.Equal(t, jwtx.DefaultLongRefreshTTL, window)
	})

	t.Run("provider rejection maps to federation_failed", func(t *testing.T) {
		svc := &FederationService{
			Accounts: s.Accounts(),
			Sessions: sessions,
			Google:   &stubVerifier{err: errors.New("bad token")},
		}

		_, _, err := svc.LoginWithGoogle(ctx, "bad")
		require.ErrorIs(t, err, ErrFederationFailed)
	})

	t.Run("provider sentinel stays visible through the wrap", func(t *testing.T) {
		svc := &FederationService{
			Accounts: s.Accounts(),
			Sessions: sessions,
			GitHub:   &stubVerifier{err: provider.ErrVerificationFailed},
		}

		_, _, err := svc.LoginWithGitHub(ctx, "bad-code")
		require.ErrorIs(t, err, ErrFederationFailed)
		require.ErrorIs(t, err, provider.ErrVerificationFailed)
	})

	t.Run("unconfigured provider fails closed", func(t *testing.T) {
		svc := &FederationService{Accounts: s.Accounts(), Sessions: sessions}

		_, _, err := svc.LoginWithGitHub(ctx, "code")
		require.ErrorIs(t, err, ErrFederationFailed)
	})
}

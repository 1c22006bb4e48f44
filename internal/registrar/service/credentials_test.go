package service

import (
	"context"
	"testing"

	"github.com/campusworks/registrar/internal/registrar/domain"
	"github.com/stretchr/testify/require"
)

func TestCredentialVerify(t *testing.T) {
	s := newTestStore(t)
	svc := &CredentialService{Accounts: s.Accounts()}
	ctx := context.Background()

	student := seedAccount(t, s, domain.RoleStudent, "student-pass")
	faculty := seedAccount(t, s, domain.RoleFaculty, "faculty-pass")
	admin := seedAccount(t, s, domain.RoleAdmin, "admin-pass")

	t.Run("student verifies against argon2id hash", func(t *testing.T) {
		got, err := svc.Verify(ctx, student.Email, "student-pass")
		require.NoError(t, err)
		require.Equal(t, student.ID, got.ID)

		_, err = svc.Verify(ctx, student.Email, "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("faculty verifies against stored plaintext", func(t *testing.T) {
		got, err := svc.Verify(ctx, faculty.Email, "faculty-pass")
		require.NoError(t, err)
		require.Equal(t, domain.RoleFaculty, got.Role)

		_, err = svc.Verify(ctx, faculty.Email, "faculty-pas")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("admin verifies against stored plaintext", func(t *testing.T) {
		got, err := svc.Verify(ctx, admin.Email, "admin-pass")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, got.Role)
	})

	t.Run("hash never matches as plaintext for students", func(t *testing.T) {
		// Presenting the stored credential itself must not log in.
		_, err := svc.Verify(ctx, student.Email, student.Credential)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is a distinct error", func(t *testing.T) {
		_, err := svc.Verify(ctx, "nobody@campus.edu", "whatever")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("empty inputs are invalid credentials", func(t *testing.T) {
		_, err := svc.Verify(ctx, "", "pw")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Verify(ctx, student.Email, "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

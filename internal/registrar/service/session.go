package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/campusworks/registrar/internal/registrar/domain"
	"github.com/campusworks/registrar/internal/registrar/store"
	"github.com/campusworks/registrar/pkg/jwtx"
	"github.com/campusworks/registrar/pkg/slogx"
)

var (
	ErrMissingToken = errors.New("missing_token")
	ErrInvalidToken = errors.New("invalid_token")
)

// SessionService issues, refreshes, and terminates token-pair sessions.
// Refresh tokens are single-use: rotating one records its jti in the
// revocation ledger, and the ledger write doubles as the arbiter when
// the same token is presented concurrently.
type SessionService struct {
	Codec      *jwtx.Codec
	Ledger     store.Ledger
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// LongRefreshTTL is used for "stay logged in" and federated sessions.
	LongRefreshTTL time.Duration
}

func (s *SessionService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTTL
}

func (s *SessionService) refreshTTL(long bool) time.Duration {
	if long {
		if s.LongRefreshTTL > 0 {
			return s.LongRefreshTTL
		}
		return jwtx.DefaultLongRefreshTTL
	}
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTTL
}

// IssueSession mints a fresh access/refresh pair for an authenticated
// account. The subject claim is the account's email, which lets the
// claim reader answer "who am I" without a store lookup. stayLoggedIn
// stretches the refresh window from one day to thirty.
func (s *SessionService) IssueSession(ctx context.Context, account domain.Account, stayLoggedIn bool) (domain.TokenPair, error) {
	return s.issuePair(ctx, account.Email, account.Role.String(), s.refreshTTL(stayLoggedIn))
}

// Refresh exchanges a valid, unconsumed refresh token for a new pair.
// The presented token is consumed atomically: of N concurrent calls with
// the same token, exactly one receives a new pair and the rest get
// ErrInvalidToken. The new refresh token always carries the standard
// one-day window regardless of how long the original session was.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if refreshToken == "" {
		return domain.TokenPair{}, ErrMissingToken
	}

	claims, err := s.Codec.Verify(refreshToken)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidToken
	}
	if err := claims.ValidateKind(jwtx.KindRefresh); err != nil {
		return domain.TokenPair{}, ErrInvalidToken
	}

	won, err := s.Ledger.Consume(ctx, claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if !won {
		l.Info("refresh token replayed", slog.String("jti", claims.ID))
		return domain.TokenPair{}, ErrInvalidToken
	}

	return s.issuePair(ctx, claims.Subject, claims.Role, s.refreshTTL(false))
}

// Logout revokes the refresh token so it can never rotate again. It is
// deliberately fail-open: a missing, expired, or garbled token still
// results in a successful logout, since the caller's cookies are cleared
// either way.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) {
	l := slogx.FromContext(ctx)

	if refreshToken == "" {
		return
	}
	claims, err := s.Codec.Verify(refreshToken)
	if err != nil || claims.ValidateKind(jwtx.KindRefresh) != nil {
		return
	}
	if err := s.Ledger.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		l.Error("failed to revoke refresh token on logout", slog.Any("error", err))
	}
}

// CurrentUser reads an access token back into its subject and role.
// It deliberately never touches the account store or the ledger: the
// token alone answers "who am I" for its whole 15-minute window.
func (s *SessionService) CurrentUser(ctx context.Context, accessToken string) (jwtx.SessionClaims, error) {
	if accessToken == "" {
		return jwtx.SessionClaims{}, ErrMissingToken
	}

	claims, err := s.Codec.Verify(accessToken)
	if err != nil {
		return jwtx.SessionClaims{}, ErrInvalidToken
	}
	if err := claims.ValidateKind(jwtx.KindAccess); err != nil {
		return jwtx.SessionClaims{}, ErrInvalidToken
	}

	return claims, nil
}

func (s *SessionService) issuePair(ctx context.Context, subject, role string, refreshTTL time.Duration) (domain.TokenPair, error) {
	now := time.Now().UTC()

	accessClaims := jwtx.NewSessionClaims(subject, role, jwtx.KindAccess, s.Codec.Issuer(), s.accessTTL(), now)
	access, err := s.Codec.Sign(accessClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshClaims := jwtx.NewSessionClaims(subject, role, jwtx.KindRefresh, s.Codec.Issuer(), refreshTTL, now)
	refresh, err := s.Codec.Sign(refreshClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessClaims.ExpiresAt.Time,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
	}, nil
}

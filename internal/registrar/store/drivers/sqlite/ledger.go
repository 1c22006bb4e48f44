package sqlite

import (
	"context"
	"database/sql"
	"time"
)

type ledgerRepo struct {
	db *sql.DB
}

// Consume records jti as revoked. INSERT OR IGNORE makes the write a
// check-and-set: rows affected is 1 only for the first caller, so exactly
// one of any concurrent consumers wins.
func (r *ledgerRepo) Consume(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at, revoked_at)
		 VALUES (?, ?, ?)`,
		jti, expiresAt.Unix(), time.Now().Unix())
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Revoke marks jti as revoked. Revoking an already revoked token is a no-op.
func (r *ledgerRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.Consume(ctx, jti, expiresAt)
	return err
}

func (r *ledgerRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM revoked_tokens WHERE jti = ?`, jti).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired drops ledger entries whose token has already expired on
// its own. They can no longer pass signature validation, so keeping them
// only grows the table.
func (r *ledgerRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/campusworks/registrar/internal/registrar/domain"
	"github.com/campusworks/registrar/internal/registrar/store"
	"github.com/campusworks/registrar/pkg/idx"
)

type accountsRepo struct {
	db *sql.DB
}

const accountColumns = `id, email, credential, role, created_at, updated_at`

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *accountsRepo) Create(ctx context.Context, account domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, credential, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID.String(), account.Email, account.Credential,
		account.Role.String(), account.CreatedAt, account.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *accountsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		account domain.Account
		id      string
		role    string
	)
	err := row.Scan(&id, &account.Email, &account.Credential, &role,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	if account.ID, err = idx.Parse(id); err != nil {
		return domain.Account{}, err
	}
	if account.Role, err = domain.ParseRole(role); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

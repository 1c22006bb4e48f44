package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/campusworks/registrar/internal/registrar/domain"
	"github.com/campusworks/registrar/internal/registrar/store"
	"github.com/campusworks/registrar/pkg/cryptox"
	"github.com/campusworks/registrar/pkg/idx"
)

// seedAccount is one entry of the REGISTRAR_SEED_ACCOUNTS JSON array.
// Student passwords are hashed before storage; faculty and admin
// passwords are stored as given, matching the legacy import format.
type seedAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// seedAccounts provisions the accounts listed in REGISTRAR_SEED_ACCOUNTS,
// if set. Existing emails are left untouched, so seeding is idempotent
// across restarts.
func (app *Application) seedAccounts() error {
	raw := os.Getenv("REGISTRAR_SEED_ACCOUNTS")
	if raw == "" {
		return nil
	}

	var seeds []seedAccount
	if err := json.Unmarshal([]byte(raw), &seeds); err != nil {
		return fmt.Errorf("invalid REGISTRAR_SEED_ACCOUNTS: %w", err)
	}

	ctx := context.Background()
	accounts := app.db.Accounts()

	var created int
	for _, seed := range seeds {
		role, err := domain.ParseRole(seed.Role)
		if err != nil {
			return fmt.Errorf("seed account %q: %w", seed.Email, err)
		}

		credential := seed.Password
		if role == domain.RoleStudent {
			if credential, err = cryptox.HashPassword(seed.Password); err != nil {
				return fmt.Errorf("seed account %q: %w", seed.Email, err)
			}
		}

		now := time.Now().Unix()
		err = accounts.Create(ctx, domain.Account{
			ID:         idx.New(),
			Email:      seed.Email,
			Credential: credential,
			Role:       role,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed account %q: %w", seed.Email, err)
		}
		created++
	}

	app.logger.Info("seed accounts applied", "created", created, "total", len(seeds))
	return nil
}

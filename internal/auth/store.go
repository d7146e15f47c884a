package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID    string
	Email string
	Hash  []byte
	Role  string
}

type UserStore interface {
	Create(ctx context.Context, email, password, role, id string) error
	Verify(ctx context.Context, email, password string) (User, error)
	Ping(ctx context.Context) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePassword(password string) string {
	return strings.TrimSpace(password)
}

// SeedAdmin creates the admin account from deployment configuration. An
// already existing email is fine: the account survives restarts.
func SeedAdmin(ctx context.Context, store UserStore, email, password, id string) error {
	err := store.Create(ctx, email, password, RoleAdmin, id)
	if errors.Is(err, ErrEmailExists) {
		return nil
	}
	return err
}

package auth

import (
	"context"
	"errors"
	"testing"
)

func TestMemStore_CreateAndVerify(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if err := s.Create(ctx, " Admin@GardenRosas.com ", "senha-secreta", RoleAdmin, "u_1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Verify normalizes email the same way Create does.
	u, err := s.Verify(ctx, "admin@gardenrosas.com", "senha-secreta")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.ID != "u_1" || u.Role != RoleAdmin {
		t.Fatalf("user=%+v", u)
	}

	if _, err := s.Verify(ctx, "admin@gardenrosas.com", "senha-errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err=%v", err)
	}
	if _, err := s.Verify(ctx, "ninguem@example.com", "senha-secreta"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err=%v", err)
	}
}

func TestMemStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if err := s.Create(ctx, "user@example.com", "password123", RoleUser, "u_1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, "USER@example.com", "password456", RoleUser, "u_2"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate err=%v", err)
	}
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if err := SeedAdmin(ctx, s, "admin@gardenrosas.com", "senha-secreta", "u_1"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := SeedAdmin(ctx, s, "admin@gardenrosas.com", "senha-secreta", "u_2"); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	u, err := s.Verify(ctx, "admin@gardenrosas.com", "senha-secreta")
	if err != nil || u.ID != "u_1" {
		t.Fatalf("user=%+v err=%v", u, err)
	}
}

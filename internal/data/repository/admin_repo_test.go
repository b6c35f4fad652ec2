package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"limo-booking/internal/data/entity"
	"limo-booking/pkg/docstore"

	"go.uber.org/zap"
)

func newAdminRepo() AdminRepository {
	return NewAdminRepository(docstore.NewMemoryStore(), zap.NewNop())
}

func TestAdminCreateAndFind(t *testing.T) {
	repo := newAdminRepo()
	ctx := context.Background()

	admin := &entity.Admin{
		Email:        "Boss@Limo.Test",
		PasswordHash: "$2a$10$fakehash",
		Role:         entity.RoleAdmin,
		CreatedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("create error: %v", err)
	}

	// Lookup is case-insensitive on the email key.
	found, err := repo.FindByEmail(ctx, "boss@limo.test")
	if err != nil {
		t.Fatalf("find error: %v", err)
	}
	if found == nil {
		t.Fatal("admin not found after create")
	}
	if found.Email != "boss@limo.test" {
		t.Fatalf("email not normalized in storage: %q", found.Email)
	}
	if found.PasswordHash != "$2a$10$fakehash" {
		t.Fatalf("hash round trip: %q", found.PasswordHash)
	}
	if found.LastLogin != nil {
		t.Fatal("fresh admin has a lastLogin")
	}
}

func TestAdminCreateDuplicate(t *testing.T) {
	repo := newAdminRepo()
	ctx := context.Background()

	admin := &entity.Admin{
		Email:        "boss@limo.test",
		PasswordHash: "hash",
		Role:         entity.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("create error: %v", err)
	}

	err := repo.Create(ctx, &entity.Admin{
		Email:        "BOSS@limo.test",
		PasswordHash: "other",
		Role:         entity.RoleAdmin,
		CreatedAt:    time.Now(),
	})
	if !errors.Is(err, docstore.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAdminFindMissingReturnsNil(t *testing.T) {
	repo := newAdminRepo()

	found, err := repo.FindByEmail(context.Background(), "ghost@limo.test")
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil, got %+v", found)
	}
}

func TestAdminUpdateLastLogin(t *testing.T) {
	repo := newAdminRepo()
	ctx := context.Background()

	admin := &entity.Admin{
		Email:        "boss@limo.test",
		PasswordHash: "hash",
		Role:         entity.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("create error: %v", err)
	}

	at := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	if err := repo.UpdateLastLogin(ctx, "boss@limo.test", at); err != nil {
		t.Fatalf("update error: %v", err)
	}

	found, _ := repo.FindByEmail(ctx, "boss@limo.test")
	if found.LastLogin == nil || !found.LastLogin.Equal(at) {
		t.Fatalf("lastLogin not recorded: %v", found.LastLogin)
	}

	if err := repo.UpdateLastLogin(ctx, "ghost@limo.test", at); err == nil {
		t.Fatal("expected error for a missing admin")
	}
}

package usecase

import (
	"context"
	"strings"
	"testing"

	"limo-booking/internal/data/repository"
	"limo-booking/internal/dto/request"
	"limo-booking/pkg/docstore"
	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

func newAuthFixture() (AuthService, *repository.Repository) {
	log := zap.NewNop()
	store := docstore.NewMemoryStore()
	repo := repository.NewRepository(store, log)
	config := &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
	}
	return NewAuthService(repo, config, log), repo
}

func TestCreateAdminAndLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	created, err := svc.CreateAdmin(ctx, &request.CreateAdminRequest{
		Email:    "Boss@Limo.Test",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("create admin error: %v", err)
	}
	if created.Email != "boss@limo.test" {
		t.Fatalf("email not normalized: %q", created.Email)
	}

	auth, err := svc.Login(ctx, &request.LoginRequest{
		Email:    "boss@limo.test",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if auth.Token == "" {
		t.Fatal("expected a session token")
	}
	if auth.Role != "admin" {
		t.Fatalf("unexpected role: %q", auth.Role)
	}

	claims, err := utils.ParseToken(auth.Token, "test-secret")
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Email != "boss@limo.test" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	admin, err := repo.Admin.FindByEmail(ctx, "boss@limo.test")
	if err != nil {
		t.Fatalf("find admin error: %v", err)
	}
	if admin.LastLogin == nil {
		t.Fatal("successful login did not record lastLogin")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.CreateAdmin(ctx, &request.CreateAdminRequest{
		Email:    "boss@limo.test",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("create admin error: %v", err)
	}

	_, err := svc.Login(ctx, &request.LoginRequest{
		Email:    "boss@limo.test",
		Password: "wrong-horse",
	})
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if err.Error() != "invalid credentials" {
		t.Fatalf("unexpected error: %v", err)
	}

	admin, _ := repo.Admin.FindByEmail(ctx, "boss@limo.test")
	if admin.LastLogin != nil {
		t.Fatal("failed login still recorded lastLogin")
	}
}

func TestLoginUnknownEmailSameFailure(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@limo.test",
		Password: "whatever",
	})
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if err.Error() != "invalid credentials" {
		t.Fatalf("unknown email leaks a different error: %v", err)
	}
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	req := &request.CreateAdminRequest{Email: "boss@limo.test", Password: "correct-horse"}
	if _, err := svc.CreateAdmin(ctx, req); err != nil {
		t.Fatalf("create admin error: %v", err)
	}

	_, err := svc.CreateAdmin(ctx, req)
	if err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateAdminShortPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.CreateAdmin(context.Background(), &request.CreateAdminRequest{
		Email:    "boss@limo.test",
		Password: "short",
	})
	if err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyReturnsAdminWithoutHash(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.CreateAdmin(ctx, &request.CreateAdminRequest{
		Email:    "boss@limo.test",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("create admin error: %v", err)
	}

	admin, err := svc.Verify(ctx, "boss@limo.test")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if admin.Email != "boss@limo.test" || admin.Role != "admin" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	if _, err := svc.Verify(ctx, "ghost@limo.test"); err == nil {
		t.Fatal("expected unknown admin to be reported")
	}
}

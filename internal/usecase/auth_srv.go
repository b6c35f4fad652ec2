package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"limo-booking/internal/data/entity"
	"limo-booking/internal/data/repository"
	"limo-booking/internal/dto/request"
	"limo-booking/internal/dto/response"
	"limo-booking/pkg/docstore"
	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	CreateAdmin(ctx context.Context, req *request.CreateAdminRequest) (*response.AdminResponse, error)
	Verify(ctx context.Context, email string) (*response.AdminResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := s.repo.Admin.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to look up admin", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to look up admin")
	}

	// Same failure for unknown email and wrong password.
	if admin == nil || !utils.CheckPassword(admin.PasswordHash, req.Password) {
		s.log.Warn("Login rejected", zap.String("email", email))
		return nil, fmt.Errorf("invalid credentials")
	}

	token, expiresAt, err := utils.GenerateToken(admin.Email, admin.Role, s.config.JWT.Secret, s.config.JWT.ExpiryHours)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to issue session token")
	}

	if err := s.repo.Admin.UpdateLastLogin(ctx, admin.Email, time.Now()); err != nil {
		// The session is already issued; a stale lastLogin is tolerable.
		s.log.Warn("Failed to update last login", zap.Error(err), zap.String("email", email))
	}

	s.log.Info("Admin logged in", zap.String("email", email))

	return &response.AuthResponse{
		Token:     token,
		Email:     admin.Email,
		Role:      admin.Role,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) CreateAdmin(ctx context.Context, req *request.CreateAdminRequest) (*response.AdminResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create admin validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	admin := &entity.Admin{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return nil, fmt.Errorf("admin email already registered")
		}
		s.log.Error("Failed to create admin", zap.Error(err), zap.String("email", admin.Email))
		return nil, fmt.Errorf("failed to create admin")
	}

	s.log.Info("Admin created", zap.String("email", admin.Email))

	resp := response.AdminToResponse(admin)
	return &resp, nil
}

func (s *authService) Verify(ctx context.Context, email string) (*response.AdminResponse, error) {
	admin, err := s.repo.Admin.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin")
	}
	if admin == nil {
		return nil, fmt.Errorf("admin %s not found", email)
	}

	resp := response.AdminToResponse(admin)
	return &resp, nil
}

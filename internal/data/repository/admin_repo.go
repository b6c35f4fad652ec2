package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"limo-booking/internal/data/entity"
	"limo-booking/pkg/docstore"

	"go.uber.org/zap"
)

type AdminRepository interface {
	// Create stores the admin under its email key. Fails with
	// docstore.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, admin *entity.Admin) error
	FindByEmail(ctx context.Context, email string) (*entity.Admin, error)
	UpdateLastLogin(ctx context.Context, email string, at time.Time) error
}

type adminRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewAdminRepository(store docstore.Store, log *zap.Logger) AdminRepository {
	return &adminRepository{
		store: store,
		log:   log.With(zap.String("repository", "admin")),
	}
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	key := adminKey(admin.Email)

	_, err := r.store.Get(ctx, CollectionAdmins, key)
	if err == nil {
		return docstore.ErrAlreadyExists
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		r.log.Error("Failed to check existing admin",
			zap.Error(err),
			zap.String("email", admin.Email),
		)
		return fmt.Errorf("check existing admin %s: %w", admin.Email, err)
	}

	if err := r.store.Set(ctx, CollectionAdmins, key, adminToDocument(admin)); err != nil {
		r.log.Error("Failed to create admin",
			zap.Error(err),
			zap.String("email", admin.Email),
		)
		return fmt.Errorf("create admin %s: %w", admin.Email, err)
	}

	return nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	doc, err := r.store.Get(ctx, CollectionAdmins, adminKey(email))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find admin",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find admin %s: %w", email, err)
	}

	return adminFromDocument(doc)
}

func (r *adminRepository) UpdateLastLogin(ctx context.Context, email string, at time.Time) error {
	patch := docstore.Document{
		"lastLogin": at.UTC().Format(TimeLayout),
	}

	err := r.store.Update(ctx, CollectionAdmins, adminKey(email), patch)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("admin %s not found", email)
		}
		return fmt.Errorf("update admin %s last login: %w", email, err)
	}

	return nil
}

// adminKey normalizes the email used as the document key.
func adminKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func adminToDocument(admin *entity.Admin) docstore.Document {
	doc := docstore.Document{
		"email":     adminKey(admin.Email),
		"password":  admin.PasswordHash,
		"role":      admin.Role,
		"createdAt": admin.CreatedAt.UTC().Format(TimeLayout),
	}
	if admin.LastLogin != nil {
		doc["lastLogin"] = admin.LastLogin.UTC().Format(TimeLayout)
	}
	return doc
}

func adminFromDocument(doc docstore.Document) (*entity.Admin, error) {
	admin := &entity.Admin{
		Email:        docString(doc, "email"),
		PasswordHash: docString(doc, "password"),
		Role:         docString(doc, "role"),
	}

	createdAt, err := docTime(doc, "createdAt")
	if err != nil {
		return nil, fmt.Errorf("admin %s: %w", admin.Email, err)
	}
	admin.CreatedAt = createdAt

	if raw := docString(doc, "lastLogin"); raw != "" {
		t, err := time.Parse(TimeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("admin %s: parse lastLogin: %w", admin.Email, err)
		}
		admin.LastLogin = &t
	}

	return admin, nil
}

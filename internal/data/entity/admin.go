package entity

import (
	"time"
)

const RoleAdmin = "admin"

// Admin is the credential entity. The email doubles as the document key,
// so it is unique by construction. PasswordHash never leaves the service
// layer.
type Admin struct {
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

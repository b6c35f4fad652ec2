package utils

import (
	"context"
	"strconv"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// CalculateTotalPages returns the page count for a total/perPage pair.
func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

type contextKey string

const (
	AdminEmailKey contextKey = "admin_email"
	RoleKey       contextKey = "role"
)

// SetAdminContext stores the authenticated admin identity on the context.
func SetAdminContext(ctx context.Context, email, role string) context.Context {
	ctx = context.WithValue(ctx, AdminEmailKey, email)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetAdminFromContext returns the authenticated admin email, if any.
func GetAdminFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(AdminEmailKey)
	if val == nil {
		return "", false
	}

	email, ok := val.(string)
	return email, ok
}

// GetRoleFromContext returns the authenticated role, if any.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(RoleKey)
	if val == nil {
		return "", false
	}

	role, ok := val.(string)
	return role, ok
}

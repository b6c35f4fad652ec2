package response

import (
	"time"

	"limo-booking/internal/data/entity"
	"limo-booking/internal/data/repository"
)

type AuthResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminResponse never carries the password hash.
type AdminResponse struct {
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func AdminToResponse(admin *entity.Admin) AdminResponse {
	return AdminResponse{
		Email:     admin.Email,
		Role:      admin.Role,
		CreatedAt: admin.CreatedAt,
		LastLogin: admin.LastLogin,
	}
}

// DashboardResponse combines aggregate counts with the latest bookings.
type DashboardResponse struct {
	Stats  *repository.BookingStats `json:"stats"`
	Recent []BookingResponse        `json:"recent"`
}

package repository

import (
	"limo-booking/pkg/docstore"

	"go.uber.org/zap"
)

// Collection names in the document store.
const (
	CollectionBookings = "bookings"
	CollectionAdmins   = "admins"
)

type Repository struct {
	Booking BookingRepository
	Admin   AdminRepository
}

func NewRepository(store docstore.Store, log *zap.Logger) *Repository {
	return &Repository{
		Booking: NewBookingRepository(store, log),
		Admin:   NewAdminRepository(store, log),
	}
}

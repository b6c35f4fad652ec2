package wire

import (
	"limo-booking/internal/adaptor"
	"limo-booking/pkg/middleware"
	"limo-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/bookings", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// POST /api/bookings - Submit a booking request
		r.Post("/", bookingHandler.Create)

		// GET /api/bookings - List bookings (page, limit, status, date, search, cursor)
		r.Get("/", bookingHandler.List)

		// GET /api/bookings/stats/overview - Aggregate counts
		r.Get("/stats/overview", bookingHandler.Stats)

		// GET /api/bookings/{id} - Fetch one booking
		r.Get("/{id}", bookingHandler.GetByID)

		// PUT /api/bookings/{id} - Client-side update by booking id
		r.Put("/{id}", bookingHandler.Update)

		// PATCH /api/bookings/{id}/status - Lifecycle transition
		r.Patch("/{id}/status", bookingHandler.UpdateStatus)

		// ==================== ADMIN ROUTES ====================
		// Deletion is admin-only even on the public surface.
		r.With(middleware.AdminAuth(config.JWT, log)).Delete("/{id}", bookingHandler.Delete)
	})
}

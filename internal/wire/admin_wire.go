package wire

import (
	"limo-booking/internal/adaptor"
	"limo-booking/pkg/middleware"
	"limo-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	handler *adaptor.Handler,
	config *utils.Config,
	log *zap.Logger,
) {
	auth := middleware.AdminAuth(config.JWT, log)

	r.Route("/api/admin", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/login", handler.Auth.Login)
		r.Post("/logout", handler.Auth.Logout)

		// One-time bootstrap; rejects an already-registered email.
		r.Post("/setup", handler.Auth.Setup)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Get("/verify", handler.Auth.Verify)
			r.Get("/stats/dashboard", handler.Booking.Dashboard)

			// Mirrored booking management surface
			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", handler.Booking.List)
				r.Get("/{id}", handler.Booking.GetByID)
				r.Put("/{id}", handler.Booking.Update)
				r.Patch("/{id}/status", handler.Booking.UpdateStatus)
				r.Patch("/{id}/notes", handler.Booking.UpdateNotes)
				r.Post("/{id}/respond", handler.Booking.Respond)
				r.Delete("/{id}", handler.Booking.Delete)
			})
		})
	})
}

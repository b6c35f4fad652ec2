package adaptor

import (
	"limo-booking/internal/usecase"
	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Auth    *AuthHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, config.App.Debug, log),
		Auth:    NewAuthHandler(service.Auth, config, log),
	}
}

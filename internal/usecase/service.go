package usecase

import (
	"limo-booking/internal/data/repository"
	"limo-booking/internal/notify"
	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Auth    AuthService
}

func NewService(repo *repository.Repository, dispatcher *notify.Dispatcher, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo, dispatcher, log),
		Auth:    NewAuthService(repo, config, log),
	}
}

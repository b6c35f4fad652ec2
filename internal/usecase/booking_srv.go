package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"limo-booking/internal/data/entity"
	"limo-booking/internal/data/repository"
	"limo-booking/internal/dto/request"
	"limo-booking/internal/dto/response"
	"limo-booking/internal/notify"
	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type BookingService interface {
	Create(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	List(ctx context.Context, q request.ListBookingsQuery) (*response.PaginatedResponse[response.BookingResponse], error)
	GetByID(ctx context.Context, id string) (*response.BookingResponse, error)
	Update(ctx context.Context, id string, req *request.UpdateBookingRequest, updatedBy string) (*response.BookingResponse, error)
	UpdateStatus(ctx context.Context, id, status, updatedBy string) (*response.BookingResponse, error)
	UpdateNotes(ctx context.Context, id, notes, updatedBy string) (*response.BookingResponse, error)
	Delete(ctx context.Context, id string) error
	Respond(ctx context.Context, id string, req *request.RespondRequest, sentBy string) (*response.BookingResponse, error)
	Stats(ctx context.Context) (*repository.BookingStats, error)
	Dashboard(ctx context.Context) (*response.DashboardResponse, error)
}

type bookingService struct {
	repo       *repository.Repository
	dispatcher *notify.Dispatcher
	log        *zap.Logger
}

func NewBookingService(repo *repository.Repository, dispatcher *notify.Dispatcher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Create(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	req.Normalize()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking := req.Sanitize(time.Now)

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("email", booking.Email),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("email", booking.Email),
		zap.String("vehicle_type", booking.VehicleType),
	)

	// Best-effort under the default policy: never gates the response.
	s.dispatcher.BookingCreated(ctx, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) List(ctx context.Context, q request.ListBookingsQuery) (*response.PaginatedResponse[response.BookingResponse], error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if q.Status != "" && !entity.ValidBookingStatus(q.Status) {
		return nil, fmt.Errorf("invalid status filter %q", q.Status)
	}

	params := repository.BookingListParams{
		Status: q.Status,
		Date:   q.Date,
		Search: q.Search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if q.Cursor != "" {
		createdBefore, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor")
		}
		params.CreatedBefore = createdBefore
		params.Offset = 0
		page = 1
	}

	bookings, total, err := s.repo.Booking.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	var nextCursor string
	if len(bookings) == limit && limit > 0 {
		last := bookings[len(bookings)-1]
		nextCursor = encodeCursor(last.CreatedAt)
	}

	items := response.BookingsToResponses(bookings)

	s.log.Debug("Bookings listed",
		zap.Int("count", len(items)),
		zap.Int64("total", total),
		zap.Int("page", page),
		zap.Int("limit", limit),
	)

	return response.NewPaginatedResponse(items, page, limit, total, nextCursor), nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", id)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Update(ctx context.Context, id string, req *request.UpdateBookingRequest, updatedBy string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", id)
	}

	req.ApplyTo(booking)

	// The merged record must still satisfy the creation rules.
	if errs := request.ValidateBooking(booking); len(errs) > 0 {
		s.log.Warn("Update booking validation failed",
			zap.String("booking_id", id),
			zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking.UpdatedAt = time.Now()
	if updatedBy != "" {
		booking.LastUpdatedBy = updatedBy
	}

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", id),
		zap.String("updated_by", updatedBy),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id, status, updatedBy string) (*response.BookingResponse, error) {
	if !entity.ValidBookingStatus(status) {
		return nil, fmt.Errorf("invalid status %q, must be one of pending, confirmed, in-progress, completed, cancelled", status)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", id)
	}

	newStatus := entity.BookingStatus(status)
	if err := s.repo.Booking.UpdateStatus(ctx, id, newStatus, updatedBy); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	booking.Status = newStatus
	booking.UpdatedAt = time.Now()
	booking.LastUpdatedBy = updatedBy

	s.log.Info("Booking status updated",
		zap.String("booking_id", id),
		zap.String("status", status),
		zap.String("updated_by", updatedBy),
	)

	// Awaited but tolerated: a failed email never rolls back the status.
	s.dispatcher.StatusChanged(ctx, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateNotes(ctx context.Context, id, notes, updatedBy string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", id)
	}

	if err := s.repo.Booking.UpdateNotes(ctx, id, notes, updatedBy); err != nil {
		return nil, fmt.Errorf("update booking notes: %w", err)
	}

	booking.AdminNotes = notes
	booking.UpdatedAt = time.Now()
	booking.LastUpdatedBy = updatedBy

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found", id)
	}

	if err := s.repo.Booking.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	return nil
}

func (s *bookingService) Respond(ctx context.Context, id string, req *request.RespondRequest, sentBy string) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s not found", id)
	}

	// Strict mode: if the send fails nothing is recorded.
	messageID, err := s.dispatcher.Respond(ctx, booking, req.Subject, req.Message)
	if err != nil {
		return nil, fmt.Errorf("send response email: %w", err)
	}

	entry := entity.BookingResponse{
		Message: req.Message,
		Subject: req.Subject,
		SentAt:  time.Now(),
		SentBy:  sentBy,
	}

	if err := s.repo.Booking.AppendResponse(ctx, booking, entry); err != nil {
		return nil, fmt.Errorf("record response: %w", err)
	}

	s.log.Info("Response sent to client",
		zap.String("booking_id", id),
		zap.String("sent_by", sentBy),
		zap.String("message_id", messageID),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Stats(ctx context.Context) (*repository.BookingStats, error) {
	stats, err := s.repo.Booking.Stats(ctx)
	if err != nil {
		s.log.Error("Failed to compute booking stats", zap.Error(err))
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	return stats, nil
}

func (s *bookingService) Dashboard(ctx context.Context) (*response.DashboardResponse, error) {
	stats, err := s.repo.Booking.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}

	recent, err := s.repo.Booking.Recent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("recent bookings: %w", err)
	}

	return &response.DashboardResponse{
		Stats:  stats,
		Recent: response.BookingsToResponses(recent),
	}, nil
}

// Cursors are the last-seen createdAt sort key, base64-wrapped so clients
// treat them as opaque.
func encodeCursor(createdAt time.Time) string {
	return base64.URLEncoding.EncodeToString([]byte(createdAt.UTC().Format(repository.TimeLayout)))
}

func decodeCursor(cursor string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	if _, err := time.Parse(repository.TimeLayout, string(raw)); err != nil {
		return "", err
	}
	return string(raw), nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"limo-booking/internal/data/entity"
	"limo-booking/pkg/docstore"

	"github.com/jinzhu/now"
	"go.uber.org/zap"
)

// TimeLayout is the fixed-width RFC3339 form timestamps are persisted in.
// Fixed width keeps lexicographic order equal to chronological order, so
// the store's string range filters work on time fields.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// BookingListParams describes one window of the bookings collection.
type BookingListParams struct {
	Status string
	Date   string
	Search string
	Limit  int
	Offset int

	// CreatedBefore is the cursor bound: only records strictly older than
	// this timestamp (TimeLayout string) are returned. Replaces Offset
	// when set.
	CreatedBefore string
}

type BookingStats struct {
	Total     int64            `json:"total"`
	Today     int64            `json:"today"`
	ThisMonth int64            `json:"thisMonth"`
	ByStatus  map[string]int64 `json:"byStatus"`
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateStatus(ctx context.Context, id string, status entity.BookingStatus, updatedBy string) error
	UpdateNotes(ctx context.Context, id string, notes, updatedBy string) error
	AppendResponse(ctx context.Context, booking *entity.Booking, resp entity.BookingResponse) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params BookingListParams) ([]*entity.Booking, int64, error)
	Recent(ctx context.Context, limit int) ([]*entity.Booking, error)
	Stats(ctx context.Context) (*BookingStats, error)
}

type bookingRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewBookingRepository(store docstore.Store, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		store: store,
		log:   log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	id, err := r.store.Add(ctx, CollectionBookings, bookingToDocument(booking))
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("email", booking.Email),
		)
		return fmt.Errorf("create booking: %w", err)
	}

	booking.ID = id
	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	doc, err := r.store.Get(ctx, CollectionBookings, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return bookingFromDocument(doc)
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	err := r.store.Update(ctx, CollectionBookings, booking.ID, bookingToDocument(booking))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("booking %s not found", booking.ID)
		}
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID, err)
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status entity.BookingStatus, updatedBy string) error {
	patch := docstore.Document{
		"status":        string(status),
		"updatedAt":     time.Now().UTC().Format(TimeLayout),
		"lastUpdatedBy": updatedBy,
	}

	err := r.store.Update(ctx, CollectionBookings, id, patch)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("booking %s not found", id)
		}
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id, string(status), err)
	}

	return nil
}

func (r *bookingRepository) UpdateNotes(ctx context.Context, id string, notes, updatedBy string) error {
	patch := docstore.Document{
		"adminNotes":    notes,
		"updatedAt":     time.Now().UTC().Format(TimeLayout),
		"lastUpdatedBy": updatedBy,
	}

	err := r.store.Update(ctx, CollectionBookings, id, patch)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("booking %s not found", id)
		}
		return fmt.Errorf("update booking %s notes: %w", id, err)
	}

	return nil
}

// AppendResponse writes the grown response history back as one field.
// The history is append-only; callers never pass a shrunk slice.
func (r *bookingRepository) AppendResponse(ctx context.Context, booking *entity.Booking, resp entity.BookingResponse) error {
	responses := append(booking.Responses, resp)

	patch := docstore.Document{
		"responses":      responsesToDocuments(responses),
		"lastResponseAt": resp.SentAt.UTC().Format(TimeLayout),
		"lastUpdatedBy":  resp.SentBy,
		"updatedAt":      time.Now().UTC().Format(TimeLayout),
	}

	err := r.store.Update(ctx, CollectionBookings, booking.ID, patch)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("booking %s not found", booking.ID)
		}
		r.log.Error("Failed to append booking response",
			zap.Error(err),
			zap.String("booking_id", booking.ID),
		)
		return fmt.Errorf("append response to booking %s: %w", booking.ID, err)
	}

	booking.Responses = responses
	booking.LastResponseAt = &resp.SentAt
	booking.LastUpdatedBy = resp.SentBy
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, CollectionBookings, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return err
	}
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id),
		)
		return fmt.Errorf("delete booking %s: %w", id, err)
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id))
	return nil
}

func (r *bookingRepository) List(ctx context.Context, params BookingListParams) ([]*entity.Booking, int64, error) {
	filters := listFilters(params)

	query := docstore.Query{
		Filters:    filters,
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
	if params.CreatedBefore != "" {
		query.Filters = append(query.Filters,
			docstore.Where("createdAt", docstore.OpLess, params.CreatedBefore))
		query.Offset = 0
	}

	docs, err := r.store.Query(ctx, CollectionBookings, query)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.String("status", params.Status),
			zap.String("date", params.Date),
			zap.Int("limit", params.Limit),
			zap.Int("offset", params.Offset),
		)
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	// Totals reflect the filters without the cursor bound, so page math
	// stays stable while a client walks forward.
	total, err := r.store.Count(ctx, CollectionBookings, filters)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	bookings := make([]*entity.Booking, 0, len(docs))
	for _, doc := range docs {
		booking, err := bookingFromDocument(doc)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, total, nil
}

func (r *bookingRepository) Recent(ctx context.Context, limit int) ([]*entity.Booking, error) {
	bookings, _, err := r.List(ctx, BookingListParams{Limit: limit})
	return bookings, err
}

func (r *bookingRepository) Stats(ctx context.Context) (*BookingStats, error) {
	stats := &BookingStats{ByStatus: make(map[string]int64, len(entity.AllBookingStatuses))}

	total, err := r.store.Count(ctx, CollectionBookings, nil)
	if err != nil {
		return nil, fmt.Errorf("count total bookings: %w", err)
	}
	stats.Total = total

	dayStart := now.BeginningOfDay().UTC().Format(TimeLayout)
	today, err := r.store.Count(ctx, CollectionBookings,
		[]docstore.Filter{docstore.Where("createdAt", docstore.OpGreaterEqual, dayStart)})
	if err != nil {
		return nil, fmt.Errorf("count today's bookings: %w", err)
	}
	stats.Today = today

	monthStart := now.BeginningOfMonth().UTC().Format(TimeLayout)
	thisMonth, err := r.store.Count(ctx, CollectionBookings,
		[]docstore.Filter{docstore.Where("createdAt", docstore.OpGreaterEqual, monthStart)})
	if err != nil {
		return nil, fmt.Errorf("count this month's bookings: %w", err)
	}
	stats.ThisMonth = thisMonth

	for _, status := range entity.AllBookingStatuses {
		count, err := r.store.Count(ctx, CollectionBookings,
			[]docstore.Filter{docstore.Where("status", docstore.OpEqual, string(status))})
		if err != nil {
			return nil, fmt.Errorf("count %s bookings: %w", string(status), err)
		}
		stats.ByStatus[string(status)] = count
	}

	return stats, nil
}

// listFilters composes the conjunction for a list window. Search terms
// containing '@' prefix-match the (lower-cased) email field, everything
// else prefix-matches the name field.
func listFilters(params BookingListParams) []docstore.Filter {
	var filters []docstore.Filter

	if params.Status != "" {
		filters = append(filters, docstore.Where("status", docstore.OpEqual, params.Status))
	}
	if params.Date != "" {
		filters = append(filters, docstore.Where("date", docstore.OpEqual, params.Date))
	}
	if params.Search != "" {
		if strings.Contains(params.Search, "@") {
			filters = append(filters, docstore.PrefixFilters("email", strings.ToLower(params.Search))...)
		} else {
			filters = append(filters, docstore.PrefixFilters("name", params.Search)...)
		}
	}

	return filters
}

// ==================== DOCUMENT MAPPING ====================

func bookingToDocument(b *entity.Booking) docstore.Document {
	doc := docstore.Document{
		"name":           b.Name,
		"email":          b.Email,
		"phone":          b.Phone,
		"date":           b.Date,
		"time":           b.Time,
		"pickupLocation": b.PickupLocation,
		"dropLocation":   b.DropLocation,
		"vehicleType":    b.VehicleType,
		"passengers":     b.Passengers,
		"status":         string(b.Status),
		"adminNotes":     b.AdminNotes,
		"responses":      responsesToDocuments(b.Responses),
		"lastUpdatedBy":  b.LastUpdatedBy,
		"createdAt":      b.CreatedAt.UTC().Format(TimeLayout),
		"updatedAt":      b.UpdatedAt.UTC().Format(TimeLayout),
	}
	if b.LastResponseAt != nil {
		doc["lastResponseAt"] = b.LastResponseAt.UTC().Format(TimeLayout)
	}
	return doc
}

func bookingFromDocument(doc docstore.Document) (*entity.Booking, error) {
	booking := &entity.Booking{
		ID:             docString(doc, "id"),
		Name:           docString(doc, "name"),
		Email:          docString(doc, "email"),
		Phone:          docString(doc, "phone"),
		Date:           docString(doc, "date"),
		Time:           docString(doc, "time"),
		PickupLocation: docString(doc, "pickupLocation"),
		DropLocation:   docString(doc, "dropLocation"),
		VehicleType:    docString(doc, "vehicleType"),
		Passengers:     docInt(doc, "passengers"),
		Status:         entity.BookingStatus(docString(doc, "status")),
		AdminNotes:     docString(doc, "adminNotes"),
		LastUpdatedBy:  docString(doc, "lastUpdatedBy"),
	}

	createdAt, err := docTime(doc, "createdAt")
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", booking.ID, err)
	}
	booking.CreatedAt = createdAt

	updatedAt, err := docTime(doc, "updatedAt")
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", booking.ID, err)
	}
	booking.UpdatedAt = updatedAt

	if raw := docString(doc, "lastResponseAt"); raw != "" {
		t, err := time.Parse(TimeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("booking %s: parse lastResponseAt: %w", booking.ID, err)
		}
		booking.LastResponseAt = &t
	}

	booking.Responses, err = responsesFromDocument(doc["responses"])
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", booking.ID, err)
	}

	return booking, nil
}

func responsesToDocuments(responses []entity.BookingResponse) []any {
	out := make([]any, len(responses))
	for i, resp := range responses {
		out[i] = map[string]any{
			"message": resp.Message,
			"subject": resp.Subject,
			"sentAt":  resp.SentAt.UTC().Format(TimeLayout),
			"sentBy":  resp.SentBy,
		}
	}
	return out
}

func responsesFromDocument(raw any) ([]entity.BookingResponse, error) {
	if raw == nil {
		return nil, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("responses field has unexpected type %T", raw)
	}

	responses := make([]entity.BookingResponse, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			// Mongo decodes nested documents as docstore.Document.
			if d, isDoc := item.(docstore.Document); isDoc {
				entry = map[string]any(d)
			} else {
				return nil, fmt.Errorf("response entry has unexpected type %T", item)
			}
		}

		doc := docstore.Document(entry)
		sentAt, err := docTime(doc, "sentAt")
		if err != nil {
			return nil, fmt.Errorf("parse response sentAt: %w", err)
		}

		responses = append(responses, entity.BookingResponse{
			Message: docString(doc, "message"),
			Subject: docString(doc, "subject"),
			SentAt:  sentAt,
			SentBy:  docString(doc, "sentBy"),
		})
	}

	return responses, nil
}

func docString(doc docstore.Document, field string) string {
	if value, ok := doc[field].(string); ok {
		return value
	}
	return ""
}

func docInt(doc docstore.Document, field string) int {
	switch value := doc[field].(type) {
	case int:
		return value
	case int32:
		return int(value)
	case int64:
		return int(value)
	case float64:
		return int(value)
	default:
		return 0
	}
}

func docTime(doc docstore.Document, field string) (time.Time, error) {
	raw := docString(doc, field)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing %s field", field)
	}

	t, err := time.Parse(TimeLayout, raw)
	if err != nil {
		// Tolerate plain RFC3339 written by earlier revisions.
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse %s: %w", field, err)
		}
	}

	return t, nil
}

package request

import (
	"strconv"
	"strings"
	"time"

	"limo-booking/internal/data/entity"

	"limo-booking/pkg/utils"
)

// FlexInt decodes a JSON number or numeric string; anything unparseable
// decodes to zero instead of failing the whole body.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(raw, 64); err == nil {
		*f = FlexInt(int(fl))
		return nil
	}

	*f = 0
	return nil
}

type CreateBookingRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone" validate:"required"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	PickupLocation string  `json:"pickupLocation"`
	DropLocation   string  `json:"dropLocation"`
	VehicleType    string  `json:"vehicleType" validate:"required"`
	Passengers     FlexInt `json:"passengers" validate:"required,min=1"`
}

// Normalize trims every string field and lower-cases the email, so
// whitespace-only values fail the required checks. Deterministic, no I/O.
func (r *CreateBookingRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	r.PickupLocation = strings.TrimSpace(r.PickupLocation)
	r.DropLocation = strings.TrimSpace(r.DropLocation)
	r.VehicleType = strings.TrimSpace(r.VehicleType)
}

// Sanitize produces the canonical pending record: normalized fields,
// passengers coerced to at least 1, server-side timestamps.
func (r CreateBookingRequest) Sanitize(nowFn func() time.Time) *entity.Booking {
	r.Normalize()

	passengers := int(r.Passengers)
	if passengers < 1 {
		passengers = 1
	}

	now := nowFn()
	return &entity.Booking{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Date:           r.Date,
		Time:           r.Time,
		PickupLocation: r.PickupLocation,
		DropLocation:   r.DropLocation,
		VehicleType:    r.VehicleType,
		Passengers:     passengers,
		Status:         entity.BookingStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UpdateBookingRequest carries a partial record; nil fields keep the
// stored value. Identity, status, timestamps and the response history
// cannot be set through a full update.
type UpdateBookingRequest struct {
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Date           *string  `json:"date"`
	Time           *string  `json:"time"`
	PickupLocation *string  `json:"pickupLocation"`
	DropLocation   *string  `json:"dropLocation"`
	VehicleType    *string  `json:"vehicleType"`
	Passengers     *FlexInt `json:"passengers"`
}

// ApplyTo merges the provided fields onto the stored booking.
func (r *UpdateBookingRequest) ApplyTo(b *entity.Booking) {
	if r.Name != nil {
		b.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		b.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Phone != nil {
		b.Phone = strings.TrimSpace(*r.Phone)
	}
	if r.Date != nil {
		b.Date = strings.TrimSpace(*r.Date)
	}
	if r.Time != nil {
		b.Time = strings.TrimSpace(*r.Time)
	}
	if r.PickupLocation != nil {
		b.PickupLocation = strings.TrimSpace(*r.PickupLocation)
	}
	if r.DropLocation != nil {
		b.DropLocation = strings.TrimSpace(*r.DropLocation)
	}
	if r.VehicleType != nil {
		b.VehicleType = strings.TrimSpace(*r.VehicleType)
	}
	if r.Passengers != nil {
		b.Passengers = int(*r.Passengers)
	}
}

// bookingCheck mirrors the create-time rules so a merged record can be
// re-validated before it is persisted.
type bookingCheck struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	Phone       string `validate:"required"`
	VehicleType string `validate:"required"`
	Passengers  int    `validate:"required,min=1"`
}

// ValidateBooking re-validates a merged booking record, reporting every
// failing field.
func ValidateBooking(b *entity.Booking) map[string]string {
	return utils.ValidateStruct(bookingCheck{
		Name:        b.Name,
		Email:       b.Email,
		Phone:       b.Phone,
		VehicleType: b.VehicleType,
		Passengers:  b.Passengers,
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed in-progress completed cancelled"`
}

type UpdateNotesRequest struct {
	AdminNotes string `json:"adminNotes" validate:"required"`
}

// ListBookingsQuery is parsed from the list endpoints' query string.
type ListBookingsQuery struct {
	Page   int
	Limit  int
	Status string
	Date   string
	Search string
	Cursor string
}

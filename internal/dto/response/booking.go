package response

import (
	"time"

	"limo-booking/internal/data/entity"
)

type BookingResponse struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Email          string                   `json:"email"`
	Phone          string                   `json:"phone"`
	Date           string                   `json:"date,omitempty"`
	Time           string                   `json:"time,omitempty"`
	PickupLocation string                   `json:"pickupLocation,omitempty"`
	DropLocation   string                   `json:"dropLocation,omitempty"`
	VehicleType    string                   `json:"vehicleType"`
	Passengers     int                      `json:"passengers"`
	Status         entity.BookingStatus     `json:"status"`
	AdminNotes     string                   `json:"adminNotes,omitempty"`
	Responses      []entity.BookingResponse `json:"responses,omitempty"`
	LastResponseAt *time.Time               `json:"lastResponseAt,omitempty"`
	LastUpdatedBy  string                   `json:"lastUpdatedBy,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		Name:           b.Name,
		Email:          b.Email,
		Phone:          b.Phone,
		Date:           b.Date,
		Time:           b.Time,
		PickupLocation: b.PickupLocation,
		DropLocation:   b.DropLocation,
		VehicleType:    b.VehicleType,
		Passengers:     b.Passengers,
		Status:         b.Status,
		AdminNotes:     b.AdminNotes,
		Responses:      b.Responses,
		LastResponseAt: b.LastResponseAt,
		LastUpdatedBy:  b.LastUpdatedBy,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func BookingsToResponses(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}

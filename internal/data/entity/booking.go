package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// AllBookingStatuses is the canonical lifecycle enum. Both the public and
// the admin status endpoints accept exactly this set.
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// ValidBookingStatus reports whether s is one of the five lifecycle values.
func ValidBookingStatus(s string) bool {
	for _, status := range AllBookingStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

// BookingResponse is one entry in a booking's append-only response
// history: a free-text message an admin sent to the client.
type BookingResponse struct {
	Message string    `json:"message"`
	Subject string    `json:"subject"`
	SentAt  time.Time `json:"sentAt"`
	SentBy  string    `json:"sentBy"`
}

type Booking struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Date           string
	Time           string
	PickupLocation string
	DropLocation   string
	VehicleType    string
	Passengers     int
	Status         BookingStatus
	AdminNotes     string
	Responses      []BookingResponse
	LastResponseAt *time.Time
	LastUpdatedBy  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

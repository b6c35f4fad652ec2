package notify

import (
	"context"
	"time"

	"limo-booking/internal/data/entity"

	"go.uber.org/zap"
)

// Event names one lifecycle trigger for an email send.
type Event string

const (
	EventBookingCreated Event = "booking.created"
	EventStatusChanged  Event = "booking.status"
	EventAdminResponse  Event = "admin.response"
)

// Mode is the delivery contract for one event. The differences between
// the lifecycle flows are configuration here, not inline special cases.
type Mode int

const (
	// ModeBestEffort dispatches in the background; the caller never
	// waits and never sees a failure.
	ModeBestEffort Mode = iota
	// ModeBlockingTolerated awaits the send; failures are logged but not
	// returned.
	ModeBlockingTolerated
	// ModeBlockingStrict awaits the send and returns its failure.
	ModeBlockingStrict
)

// DefaultPolicy mirrors the lifecycle contract: creation notifications
// never gate the response, status updates are awaited but tolerated, and
// admin free-text responses must succeed before anything is recorded.
func DefaultPolicy() map[Event]Mode {
	return map[Event]Mode{
		EventBookingCreated: ModeBestEffort,
		EventStatusChanged:  ModeBlockingTolerated,
		EventAdminResponse:  ModeBlockingStrict,
	}
}

type Dispatcher struct {
	mailer     Mailer
	adminEmail string
	policy     map[Event]Mode
	log        *zap.Logger
}

func NewDispatcher(mailer Mailer, adminEmail string, policy map[Event]Mode, log *zap.Logger) *Dispatcher {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Dispatcher{
		mailer:     mailer,
		adminEmail: adminEmail,
		policy:     policy,
		log:        log.With(zap.String("component", "notify")),
	}
}

// BookingCreated sends the admin alert and the client confirmation.
func (d *Dispatcher) BookingCreated(ctx context.Context, b *entity.Booking) error {
	if d.adminEmail != "" {
		subject, body := AdminAlertEmail(b)
		if err := d.dispatch(ctx, EventBookingCreated, d.adminEmail, subject, body, b.ID); err != nil {
			return err
		}
	}

	subject, body := ClientConfirmationEmail(b)
	return d.dispatch(ctx, EventBookingCreated, b.Email, subject, body, b.ID)
}

// StatusChanged sends the status-specific client email.
func (d *Dispatcher) StatusChanged(ctx context.Context, b *entity.Booking) error {
	subject, body := StatusUpdateEmail(b)
	return d.dispatch(ctx, EventStatusChanged, b.Email, subject, body, b.ID)
}

// Respond sends a free-text admin message and returns the transport's
// message id. Under the default policy its failure propagates.
func (d *Dispatcher) Respond(ctx context.Context, b *entity.Booking, subject, message string) (string, error) {
	body := ResponseEmail(b, message)
	return d.send(ctx, EventAdminResponse, b.Email, subject, body, b.ID)
}

func (d *Dispatcher) dispatch(ctx context.Context, event Event, to, subject, body, bookingID string) error {
	switch d.policy[event] {
	case ModeBestEffort:
		go func() {
			// Detach from the request: the HTTP response must not wait.
			sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			d.send(sendCtx, event, to, subject, body, bookingID)
		}()
		return nil

	case ModeBlockingTolerated:
		d.send(ctx, event, to, subject, body, bookingID)
		return nil

	default:
		_, err := d.send(ctx, event, to, subject, body, bookingID)
		return err
	}
}

func (d *Dispatcher) send(ctx context.Context, event Event, to, subject, body, bookingID string) (string, error) {
	messageID, err := d.mailer.Send(ctx, to, subject, body)
	if err != nil {
		d.log.Error("Email send failed",
			zap.Error(err),
			zap.String("event", string(event)),
			zap.String("to", to),
			zap.String("booking_id", bookingID),
		)
		return "", err
	}

	d.log.Info("Email sent",
		zap.String("event", string(event)),
		zap.String("to", to),
		zap.String("booking_id", bookingID),
		zap.String("message_id", messageID),
	)
	return messageID, nil
}

package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"limo-booking/internal/data/entity"

	"go.uber.org/zap"
)

type fakeMailer struct {
	mu        sync.Mutex
	sent      []string // "to|subject"
	fail      bool
	delivered chan struct{}
}

func newFakeMailer(fail bool) *fakeMailer {
	return &fakeMailer{fail: fail, delivered: make(chan struct{}, 16)}
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if m.fail {
		return "", fmt.Errorf("smtp unreachable")
	}
	m.mu.Lock()
	m.sent = append(m.sent, to+"|"+subject)
	m.mu.Unlock()
	m.delivered <- struct{}{}
	return "<msg@test>", nil
}

func (m *fakeMailer) await(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.delivered:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func testBooking() *entity.Booking {
	return &entity.Booking{
		ID:          "bk-1",
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Phone:       "555-0100",
		VehicleType: "sedan",
		Passengers:  2,
		Status:      entity.BookingStatusPending,
	}
}

func TestBookingCreatedNotifiesAdminAndClient(t *testing.T) {
	mailer := newFakeMailer(false)
	d := NewDispatcher(mailer, "ops@limo.test", DefaultPolicy(), zap.NewNop())

	if err := d.BookingCreated(context.Background(), testBooking()); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	mailer.await(t, 2)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	var toAdmin, toClient bool
	for _, s := range mailer.sent {
		if strings.HasPrefix(s, "ops@limo.test|") {
			toAdmin = true
		}
		if strings.HasPrefix(s, "ada@example.com|") {
			toClient = true
		}
	}
	if !toAdmin || !toClient {
		t.Fatalf("expected admin and client mail, got %v", mailer.sent)
	}
}

func TestBookingCreatedSkipsAdminWhenUnconfigured(t *testing.T) {
	mailer := newFakeMailer(false)
	d := NewDispatcher(mailer, "", DefaultPolicy(), zap.NewNop())

	if err := d.BookingCreated(context.Background(), testBooking()); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	mailer.await(t, 1)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 1 || !strings.HasPrefix(mailer.sent[0], "ada@example.com|") {
		t.Fatalf("expected only the client mail, got %v", mailer.sent)
	}
}

func TestBookingCreatedFailureIsSilent(t *testing.T) {
	d := NewDispatcher(newFakeMailer(true), "ops@limo.test", DefaultPolicy(), zap.NewNop())

	if err := d.BookingCreated(context.Background(), testBooking()); err != nil {
		t.Fatalf("best-effort dispatch surfaced an error: %v", err)
	}
}

func TestStatusChangedFailureIsTolerated(t *testing.T) {
	d := NewDispatcher(newFakeMailer(true), "ops@limo.test", DefaultPolicy(), zap.NewNop())

	b := testBooking()
	b.Status = entity.BookingStatusConfirmed
	if err := d.StatusChanged(context.Background(), b); err != nil {
		t.Fatalf("tolerated dispatch surfaced an error: %v", err)
	}
}

func TestRespondFailurePropagates(t *testing.T) {
	d := NewDispatcher(newFakeMailer(true), "ops@limo.test", DefaultPolicy(), zap.NewNop())

	if _, err := d.Respond(context.Background(), testBooking(), "Subject", "Body"); err == nil {
		t.Fatal("strict dispatch swallowed the failure")
	}
}

func TestRespondReturnsMessageID(t *testing.T) {
	mailer := newFakeMailer(false)
	d := NewDispatcher(mailer, "ops@limo.test", DefaultPolicy(), zap.NewNop())

	id, err := d.Respond(context.Background(), testBooking(), "Your driver", "On the way.")
	if err != nil {
		t.Fatalf("respond error: %v", err)
	}
	if id == "" {
		t.Fatal("expected the transport message id")
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 1 || mailer.sent[0] != "ada@example.com|Your driver" {
		t.Fatalf("unexpected delivery: %v", mailer.sent)
	}
}

func TestPolicyOverride(t *testing.T) {
	// A strict creation policy must surface transport failures.
	policy := DefaultPolicy()
	policy[EventBookingCreated] = ModeBlockingStrict

	d := NewDispatcher(newFakeMailer(true), "ops@limo.test", policy, zap.NewNop())
	if err := d.BookingCreated(context.Background(), testBooking()); err == nil {
		t.Fatal("strict policy swallowed the failure")
	}
}

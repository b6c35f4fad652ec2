package notify

import (
	"fmt"
	"html"
	"strings"

	"limo-booking/internal/data/entity"
)

func tripSummaryRows(b *entity.Booking) string {
	rows := []struct{ label, value string }{
		{"Name", b.Name},
		{"Email", b.Email},
		{"Phone", b.Phone},
		{"Date", b.Date},
		{"Time", b.Time},
		{"Pickup", b.PickupLocation},
		{"Drop-off", b.DropLocation},
		{"Vehicle", b.VehicleType},
		{"Passengers", fmt.Sprintf("%d", b.Passengers)},
	}

	var sb strings.Builder
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Fprintf(&sb, `<tr><td style="padding:4px 12px;color:#666">%s</td><td style="padding:4px 12px">%s</td></tr>`,
			html.EscapeString(row.label), html.EscapeString(row.value))
	}
	return sb.String()
}

func wrapBody(title, inner string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2 style="color:#1a1a2e">%s</h2>
%s
<p style="color:#999;font-size:12px">This is an automated message from the booking system.</p>
</div>`, html.EscapeString(title), inner)
}

// AdminAlertEmail notifies the operator about a new booking request.
func AdminAlertEmail(b *entity.Booking) (subject, body string) {
	subject = fmt.Sprintf("New booking request from %s", b.Name)
	inner := fmt.Sprintf(`<p>A new booking request was submitted (reference <b>%s</b>).</p>
<table>%s</table>`, html.EscapeString(b.ID), tripSummaryRows(b))
	return subject, wrapBody("New Booking Request", inner)
}

// ClientConfirmationEmail acknowledges the request to the customer.
func ClientConfirmationEmail(b *entity.Booking) (subject, body string) {
	subject = "We received your booking request"
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>Thank you for your booking request. Your reference is <b>%s</b>.
We will confirm availability shortly.</p>
<table>%s</table>`, html.EscapeString(b.Name), html.EscapeString(b.ID), tripSummaryRows(b))
	return subject, wrapBody("Booking Received", inner)
}

var statusBlurbs = map[entity.BookingStatus]string{
	entity.BookingStatusPending:    "Your booking is pending review.",
	entity.BookingStatusConfirmed:  "Your booking is confirmed. Your chauffeur will be ready at the scheduled time.",
	entity.BookingStatusInProgress: "Your ride is in progress.",
	entity.BookingStatusCompleted:  "Your ride is complete. Thank you for riding with us.",
	entity.BookingStatusCancelled:  "Your booking has been cancelled. Contact us if this is unexpected.",
}

// StatusUpdateEmail tells the customer about a lifecycle change.
func StatusUpdateEmail(b *entity.Booking) (subject, body string) {
	subject = fmt.Sprintf("Booking update: %s", b.Status)
	blurb := statusBlurbs[b.Status]
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>The status of booking <b>%s</b> changed to <b>%s</b>.</p>
<p>%s</p>`, html.EscapeString(b.Name), html.EscapeString(b.ID), html.EscapeString(string(b.Status)), html.EscapeString(blurb))
	return subject, wrapBody("Booking Status Update", inner)
}

// ResponseEmail wraps a free-text admin message to the customer.
func ResponseEmail(b *entity.Booking, message string) string {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
<p>%s</p>
<p style="color:#666">Regarding booking <b>%s</b>.</p>`,
		html.EscapeString(b.Name),
		strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"),
		html.EscapeString(b.ID))
	return wrapBody("Message About Your Booking", inner)
}

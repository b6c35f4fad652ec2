package notify

import (
	"context"
	"fmt"

	"limo-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer is the boundary to the email transport. Send returns the message
// identifier on success.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// SMTPMailer delivers through an SMTP relay via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(config utils.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   config.From,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	messageID := fmt.Sprintf("<%s@limo-booking>", uuid.NewString())

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", messageID)
	msg.SetBody("text/html", htmlBody)

	// gomail dials synchronously; honor an already-cancelled context
	// before paying for the connection.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return "", fmt.Errorf("send mail to %s: %w", to, err)
	}

	return messageID, nil
}

// LogMailer is the degraded-mode transport: it records the send in the
// log and succeeds. Used when no SMTP credentials are configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("mailer", "log"))}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	messageID := fmt.Sprintf("<%s@limo-booking>", uuid.NewString())
	m.log.Info("Email send (log only)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(htmlBody)),
		zap.String("message_id", messageID),
	)
	return messageID, nil
}

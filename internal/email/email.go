// Package email notifies members and instructors about booking changes.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

type Dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Sender struct {
	dialer   Dialer
	from     string
	fromName string
}

func NewSender(cfg config.SMTPConfig) (*Sender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}
	return newSender(client, cfg.From, cfg.FromName), nil
}

func newSender(dialer Dialer, from, fromName string) *Sender {
	return &Sender{dialer: dialer, from: from, fromName: fromName}
}

// Send mails the booking's member and assigned instructor. Events without any
// recipient are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	recipients := recipientsOf(event)
	if len(recipients) == 0 {
		metrics.IncNotification(event.Type, "skipped")
		return nil
	}

	subject, body, err := render(event)
	if err != nil {
		metrics.IncNotification(event.Type, "skipped")
		return err
	}

	msgs := make([]*mail.Msg, 0, len(recipients))
	for _, to := range recipients {
		msg := mail.NewMsg()
		if err := msg.FromFormat(s.fromName, s.from); err != nil {
			return fmt.Errorf("set from address: %w", err)
		}
		if err := msg.To(to); err != nil {
			logrus.WithField("booking_id", event.BookingID).WithError(err).Warn("skipping invalid recipient")
			continue
		}
		msg.Subject(subject)
		msg.SetBodyString(mail.TypeTextPlain, body)
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		metrics.IncNotification(event.Type, "skipped")
		return nil
	}

	if err := s.dialer.DialAndSendWithContext(ctx, msgs...); err != nil {
		metrics.IncNotification(event.Type, "failed")
		return fmt.Errorf("send booking notification: %w", err)
	}
	metrics.IncNotification(event.Type, "sent")
	logrus.WithFields(logrus.Fields{
		"booking_id": event.BookingID,
		"event":      event.Type,
		"recipients": len(msgs),
	}).Info("booking notification sent")
	return nil
}

func recipientsOf(event kafka.BookingEvent) []string {
	var out []string
	for _, addr := range []string{event.UserEmail, event.InstructorEmail} {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if strings.EqualFold(seen, addr) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, addr)
		}
	}
	return out
}

var errUnknownEvent = errors.New("unknown booking event type")

func render(event kafka.BookingEvent) (string, string, error) {
	var action string
	switch event.Type {
	case kafka.EventBookingCancelled:
		action = "cancelled"
	case kafka.EventBookingUncancelled:
		action = "reinstated"
	default:
		return "", "", fmt.Errorf("%w: %q", errUnknownEvent, event.Type)
	}

	aircraft := event.AircraftRegistration
	if aircraft == "" {
		aircraft = "unassigned aircraft"
	}
	subject := fmt.Sprintf("Booking %s: %s %s", action, aircraft, event.StartTime.Format("2 Jan 15:04"))

	var b strings.Builder
	if event.UserName != "" {
		fmt.Fprintf(&b, "Hi %s,\n\n", event.UserName)
	} else {
		b.WriteString("Hi,\n\n")
	}
	fmt.Fprintf(&b, "The booking of %s from %s to %s has been %s.\n",
		aircraft,
		event.StartTime.Format(time.RFC1123),
		event.EndTime.Format(time.RFC1123),
		action,
	)
	if event.Type == kafka.EventBookingUncancelled {
		b.WriteString("It is confirmed again.\n")
	}
	if event.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", event.Reason)
	}
	fmt.Fprintf(&b, "\nBooking reference: %s\n", event.BookingID)
	return subject, b.String(), nil
}

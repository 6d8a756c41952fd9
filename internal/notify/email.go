package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"starevents/internal/config"
	"starevents/internal/logger"
	"starevents/internal/models"
)

// Notifier sends booking lifecycle emails.
type Notifier interface {
	BookingConfirmed(to string, bkg models.Booking, eventTitle string) error
	BookingCancelled(to string, bkg models.Booking, eventTitle string) error
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(
	`Your booking {{.ID}} for {{.EventTitle}} is confirmed.
Tickets: {{.TicketQuantity}}
Total: {{printf "%.2f" .TotalAmount}}
Points earned: {{.PointsEarned}}
`))

var cancellationTmpl = template.Must(template.New("cancellation").Parse(
	`Your booking {{.ID}} for {{.EventTitle}} has been cancelled.
`))

type emailData struct {
	ID             string
	EventTitle     string
	TicketQuantity int
	TotalAmount    float64
	PointsEarned   int
}

// LogEmailSender renders the email and logs it instead of delivering.
// Swapping in a real SMTP sender only needs the same interface.
type LogEmailSender struct {
	Cfg config.EmailConfig
	Log *logger.Logger
}

func (s *LogEmailSender) send(to, subject string, tmpl *template.Template, data emailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	s.Log.Info("EMAIL", fmt.Sprintf("To %s [%s]: %s", to, subject, body.String()))
	return nil
}

func (s *LogEmailSender) BookingConfirmed(to string, bkg models.Booking, eventTitle string) error {
	return s.send(to, "Booking confirmed", confirmationTmpl, emailData{
		ID:             bkg.ID,
		EventTitle:     eventTitle,
		TicketQuantity: bkg.TicketQuantity,
		TotalAmount:    bkg.TotalAmount,
		PointsEarned:   bkg.PointsEarned,
	})
}

func (s *LogEmailSender) BookingCancelled(to string, bkg models.Booking, eventTitle string) error {
	return s.send(to, "Booking cancelled", cancellationTmpl, emailData{
		ID:         bkg.ID,
		EventTitle: eventTitle,
	})
}

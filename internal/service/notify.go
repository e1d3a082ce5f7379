package service

import (
	"context"
	"fmt"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// NewNotifier sends through SendGrid when apiKey is set and only logs otherwise.
func NewNotifier(apiKey, fromEmail, fromName string) Notifier {
	if apiKey == "" {
		logger.Warn("No SendGrid API key configured, overdue reminders will only be logged")
		return NewLogNotifier()
	}
	return NewSendGridNotifier(apiKey, fromEmail, fromName)
}

type sendGridNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) Notifier {
	return &sendGridNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (n *sendGridNotifier) SendOverdueReminder(ctx context.Context, customer *domain.Customer, rental *domain.Rental) error {
	if customer.Email == "" {
		return fmt.Errorf("%w: customer %d has no email address", domain.ErrValidation, customer.ID)
	}
	subject, body := overdueReminder(customer, rental)

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(customer.Name, customer.Email)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	logger.ExternalServiceCall("sendgrid", "Send", "rentalID", rental.ID, "to", customer.Email)
	resp, err := n.client.SendWithContext(ctx, message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "rentalID", rental.ID)
	if err != nil {
		return fmt.Errorf("failed to send overdue reminder: %w", err)
	}
	return nil
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that only logs. Used when no mail provider is configured.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) SendOverdueReminder(ctx context.Context, customer *domain.Customer, rental *domain.Rental) error {
	subject, _ := overdueReminder(customer, rental)
	logger.FromContext(ctx).Info("Overdue reminder (not sent)", "rentalID", rental.ID, "to", customer.Email, "subject", subject)
	return nil
}

func overdueReminder(customer *domain.Customer, rental *domain.Rental) (subject, body string) {
	subject = fmt.Sprintf("Rental %s is overdue", rental.RentalNumber)
	body = fmt.Sprintf("Hello %s,\n\nRental %s was due back on %s and has not been returned yet.\nPlease return the items or contact us to extend the rental.\n\nThank you.",
		customer.Name, rental.RentalNumber, rental.EndDate.Format("2006-01-02 15:04"))
	return subject, body
}

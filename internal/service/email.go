package service

import (
	"context"
	"fmt"
	"html"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailClient is the part of the SendGrid client the email service uses.
type mailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    mailClient
	fromEmail string
	fromName  string
}

// NewEmailService sends through SendGrid. With an empty API key messages are
// only logged, which is how local development runs.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	s := &emailService{
		fromEmail: fromEmail,
		fromName:  fromName,
	}
	if apiKey != "" {
		s.client = sendgrid.NewSendClient(apiKey)
	}
	return s
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText string) error {
	if s.client == nil {
		logger.InfoContext(ctx, "Email not sent (no SendGrid API key)", "to", to, "subject", subject)
		logger.DebugContext(ctx, "Email body", "body", plainText)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	htmlContent := "<p>" + html.EscapeString(plainText) + "</p>"
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)
	response, err := s.client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return nil
}

func (s *emailService) SendVerification(ctx context.Context, email, name, link string) error {
	subject := "Confirm your email address"
	body := fmt.Sprintf("Hello %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nBest regards,\nThe Book Redistribution Team", name, link)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendRequestReceived(ctx context.Context, donorEmail, donorName, receiverName, bookTitle, message string) error {
	subject := fmt.Sprintf("New request for %s", bookTitle)
	body := fmt.Sprintf("Hello %s,\n\n%s has requested your book \"%s\".", donorName, receiverName, bookTitle)
	if message != "" {
		body += fmt.Sprintf("\n\nMessage from %s:\n%s", receiverName, message)
	}
	body += "\n\nSign in to your donor dashboard to approve or reject the request.\n\nBest regards,\nThe Book Redistribution Team"
	return s.send(ctx, donorEmail, donorName, subject, body)
}

func (s *emailService) SendRequestDecision(ctx context.Context, receiverEmail, receiverName, bookTitle string, status domain.RequestStatus, donor *domain.Contact) error {
	subject := fmt.Sprintf("Your request for %s was %s", bookTitle, status)
	body := fmt.Sprintf("Hello %s,\n\nYour request for \"%s\" was %s.", receiverName, bookTitle, status)
	if status == domain.RequestStatusApproved && donor != nil {
		body += fmt.Sprintf("\n\nPlease contact the donor to arrange pickup:\nName: %s\nEmail: %s", donor.FullName, donor.Email)
		if donor.Phone != "" {
			body += fmt.Sprintf("\nPhone: %s", donor.Phone)
		}
	}
	body += "\n\nBest regards,\nThe Book Redistribution Team"
	return s.send(ctx, receiverEmail, receiverName, subject, body)
}

func (s *emailService) SendPendingReminder(ctx context.Context, digest domain.PendingDigest) error {
	subject := fmt.Sprintf("%d book request(s) awaiting your decision", digest.PendingCount)
	body := fmt.Sprintf("Hello %s,\n\nYou have %d pending book request(s), the oldest from %s.\n\nSign in to your donor dashboard to approve or reject them.\n\nBest regards,\nThe Book Redistribution Team",
		digest.DonorName, digest.PendingCount, digest.OldestSince.UTC().Format("2006-01-02"))
	return s.send(ctx, digest.DonorEmail, digest.DonorName, subject, body)
}

package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Message письмо, готовое к отправке
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender отправляет письма через внешний сервис
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type resendSender struct {
	client *resend.Client
}

// NewResendSender создает отправителя через API Resend.
func NewResendSender(apiKey string) Sender {
	return NewResendSenderWithClient(resend.NewClient(apiKey))
}

// NewResendSenderWithClient позволяет передать настроенный клиент (другой BaseURL, http.Client).
func NewResendSenderWithClient(client *resend.Client) Sender {
	return &resendSender{client: client}
}

func (s *resendSender) Send(ctx context.Context, msg Message) error {
	const op = "mail.resendSender.Send"

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

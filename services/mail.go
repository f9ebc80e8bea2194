package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// SendEmail delivers a transactional email through Mailgun. Calls are bounded
// so a slow upstream can never hang a request; lifecycle callers treat
// failures as best-effort and only log them.
func SendEmail(to, subject, text string) error {
	domain := os.Getenv("MAILGUN_DOMAIN")
	apiKey := os.Getenv("MAILGUN_API_KEY")
	if domain == "" || apiKey == "" {
		return fmt.Errorf("mailgun is not configured")
	}

	sender := os.Getenv("MAILGUN_SENDER")
	if sender == "" {
		sender = "BariSathi <no-reply@" + domain + ">"
	}

	mg := mailgun.NewMailgun(domain, apiKey)
	message := mg.NewMessage(sender, subject, text, to)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, _, err := mg.Send(ctx, message)
	return err
}

package services

import (
	"context"
	"log"
)

type Mailer interface {
	SendVerification(ctx context.Context, email, link string) error
}

type logMailer struct{}

// NewLogMailer returns a Mailer that writes the verification link to the
// log instead of delivering it.
func NewLogMailer() Mailer {
	return &logMailer{}
}

func (m *logMailer) SendVerification(_ context.Context, email, link string) error {
	log.Printf("📧 Verification email for %s: %s\n", email, link)
	return nil
}

package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// SendGridMailer sends transactional mail through the SendGrid HTTP API.
type SendGridMailer struct {
	apiKey string
	from   string
	client *http.Client
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendGridRequest struct {
	Personalizations []struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	From struct {
		Email string `json:"email"`
	} `json:"from"`
	Subject string `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, text, html string) error {
	var body sendGridRequest
	body.Personalizations = make([]struct {
		To []struct {
			Email string `json:"email"`
		} `json:"to"`
	}, 1)
	body.Personalizations[0].To = []struct {
		Email string `json:"email"`
	}{{Email: to}}
	body.From.Email = m.from
	body.Subject = subject
	body.Content = []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{
		{Type: "text/plain", Value: text},
		{Type: "text/html", Value: html},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.sendgrid.com/v3/mail/send", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid API error: status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer logs instead of sending, used when no provider is configured.
// The login code stays retrievable from the server log in development.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, text, html string) error {
	log.Printf("mailer disabled, would send to %s: %s: %s", to, subject, text)
	return nil
}

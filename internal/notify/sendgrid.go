package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const defaultSendGridBaseURL = "https://api.sendgrid.com/v3"

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgMail struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	ReplyTo          *sgAddress          `json:"reply_to,omitempty"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

// SendGridMailer sends email through the SendGrid v3 Mail Send API.
type SendGridMailer struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// SendGridOption configures a SendGridMailer.
type SendGridOption func(*SendGridMailer)

// WithSendGridBaseURL sets a custom API base URL (for testing).
func WithSendGridBaseURL(url string) SendGridOption {
	return func(m *SendGridMailer) {
		if url != "" {
			m.baseURL = url
		}
	}
}

// WithSendGridTimeout bounds each API call.
func WithSendGridTimeout(d time.Duration) SendGridOption {
	return func(m *SendGridMailer) {
		if d > 0 {
			m.httpClient.Timeout = d
		}
	}
}

// NewSendGridMailer creates a SendGridMailer authenticated with apiKey.
func NewSendGridMailer(apiKey string, opts ...SendGridOption) *SendGridMailer {
	m := &SendGridMailer{
		apiKey:     apiKey,
		baseURL:    defaultSendGridBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send implements Mailer.
func (m *SendGridMailer) Send(ctx context.Context, msg *Message) (string, error) {
	if m.apiKey == "" {
		return "", fmt.Errorf("sendgrid: API key not configured")
	}

	payload := sgMail{
		Personalizations: []sgPersonalization{{To: []sgAddress{{Email: msg.To}}}},
		From:             sgAddress{Email: msg.FromEmail, Name: msg.FromName},
		Subject:          msg.Subject,
		Content:          []sgContent{{Type: "text/html", Value: msg.HTML}},
	}
	if msg.Text != "" {
		payload.Content = []sgContent{
			{Type: "text/plain", Value: msg.Text},
			{Type: "text/html", Value: msg.HTML},
		}
	}
	if msg.ReplyTo != "" {
		payload.ReplyTo = &sgAddress{Email: msg.ReplyTo}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("sendgrid: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/mail/send", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("sendgrid: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sendgrid: send: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("sendgrid", resp); err != nil {
		return "", err
	}

	messageID := resp.Header.Get("X-Message-Id")
	if messageID == "" {
		messageID = uuid.NewString()
	}
	return messageID, nil
}

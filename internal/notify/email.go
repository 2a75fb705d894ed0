package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wattgod/training-plans-component/internal/logger"
)

// Message is an outbound email.
type Message struct {
	FromEmail string
	FromName  string
	To        string
	ReplyTo   string
	Subject   string
	HTML      string
	Text      string
}

// Mailer sends a Message through an email provider and returns the
// provider's message id.
type Mailer interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// EmailNotifier emails the enriched record to the business owner.
type EmailNotifier struct {
	log       *zap.Logger
	mailer    Mailer
	renderer  *Renderer
	to        string
	fromEmail string
	fromName  string
}

// NewEmailNotifier creates an EmailNotifier delivering to the owner inbox.
func NewEmailNotifier(log *zap.Logger, m Mailer, r *Renderer, to, fromEmail, fromName string) *EmailNotifier {
	return &EmailNotifier{log: log, mailer: m, renderer: r, to: to, fromEmail: fromEmail, fromName: fromName}
}

// Channel implements Notifier.
func (n *EmailNotifier) Channel() string { return ChannelEmail }

// Notify renders and sends the notification. Replies go to the athlete.
func (n *EmailNotifier) Notify(ctx context.Context, req *Request) error {
	email, err := n.renderer.Render(req)
	if err != nil {
		return err
	}

	id, err := n.mailer.Send(ctx, &Message{
		FromEmail: n.fromEmail,
		FromName:  n.fromName,
		To:        n.to,
		ReplyTo:   req.Record.Athlete.Email,
		Subject:   email.Subject,
		HTML:      email.HTML,
		Text:      email.Text,
	})
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}

	n.log.Debug("notification email accepted",
		zap.String("request_id", req.RequestID),
		zap.String("message_id", id),
		logger.Email("to", n.to))
	return nil
}

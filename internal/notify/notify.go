// Package notify delivers accepted submissions to the business owner by
// email and, optionally, to a repository automation as a dispatch event.
// Deliveries are best effort: failures are logged and counted, never
// retried, and never reported back to the athlete.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wattgod/training-plans-component/internal/model"
)

// Channels.
const (
	ChannelEmail      = "email"
	ChannelAutomation = "automation"
)

const userAgent = "training-plans-intake"

// Request is one accepted submission to deliver.
type Request struct {
	RequestID string
	Record    model.EnrichedRecord
}

// Notifier delivers a Request over one channel.
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, req *Request) error
}

// StatusError is returned when a provider answers with a non-success status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// checkStatus drains resp and returns a *StatusError for codes >= 300.
func checkStatus(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

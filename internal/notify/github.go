package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/wattgod/training-plans-component/internal/model"
)

const defaultGitHubAPIURL = "https://api.github.com"

// client_payload is limited to ten top-level properties, so the record is
// nested rather than flattened.
type dispatchPayload struct {
	EventType     string        `json:"event_type"`
	ClientPayload clientPayload `json:"client_payload"`
}

type clientPayload struct {
	RequestID  string               `json:"request_id"`
	DeliveryID string               `json:"delivery_id"`
	Record     model.EnrichedRecord `json:"record"`
}

// GitHubTrigger fires a repository_dispatch event carrying the record so a
// workflow can start building the plan.
type GitHubTrigger struct {
	token      string
	repo       string
	eventType  string
	baseURL    string
	httpClient *http.Client
}

// GitHubOption configures a GitHubTrigger.
type GitHubOption func(*GitHubTrigger)

// WithGitHubBaseURL sets a custom API base URL (for testing).
func WithGitHubBaseURL(url string) GitHubOption {
	return func(t *GitHubTrigger) {
		if url != "" {
			t.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithGitHubTimeout bounds each API call.
func WithGitHubTimeout(d time.Duration) GitHubOption {
	return func(t *GitHubTrigger) {
		if d > 0 {
			t.httpClient.Timeout = d
		}
	}
}

// NewGitHubTrigger creates a trigger for repo ("owner/name").
func NewGitHubTrigger(token, repo, eventType string, opts ...GitHubOption) *GitHubTrigger {
	t := &GitHubTrigger{
		token:      token,
		repo:       repo,
		eventType:  eventType,
		baseURL:    defaultGitHubAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Channel implements Notifier.
func (t *GitHubTrigger) Channel() string { return ChannelAutomation }

// Notify implements Notifier.
func (t *GitHubTrigger) Notify(ctx context.Context, req *Request) error {
	body, err := json.Marshal(dispatchPayload{
		EventType: t.eventType,
		ClientPayload: clientPayload{
			RequestID:  req.RequestID,
			DeliveryID: uuid.NewString(),
			Record:     req.Record,
		},
	})
	if err != nil {
		return fmt.Errorf("github: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/dispatches", t.baseURL, t.repo)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("github: create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+t.token)
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	httpReq.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("github: dispatch: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus("github", resp)
}

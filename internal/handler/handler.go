// Package handler contains the HTTP handlers for the intake API.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/wattgod/training-plans-component/internal/apperror"
	"github.com/wattgod/training-plans-component/internal/enrich"
	"github.com/wattgod/training-plans-component/internal/logger"
	"github.com/wattgod/training-plans-component/internal/metrics"
	"github.com/wattgod/training-plans-component/internal/model"
	"github.com/wattgod/training-plans-component/internal/notify"
	"github.com/wattgod/training-plans-component/internal/requestid"
	"github.com/wattgod/training-plans-component/internal/validation"
)

// MaxBodyBytes caps a submission body. Larger bodies are rejected as malformed.
const MaxBodyBytes = 64 << 10

// Dispatcher hands an accepted submission to the notification channels
// without waiting for them.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *notify.Request)
}

// Handler wraps HTTP handlers with their collaborators.
type Handler struct {
	log        *zap.Logger
	validator  *validation.Validator
	enricher   *enrich.Enricher
	dispatcher Dispatcher
	metrics    *metrics.Recorder
	origins    []string
	now        func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock overrides the time source used for date rules and request ids.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// New creates a new Handler instance. origins is the allow-list of origin
// prefixes.
func New(log *zap.Logger, v *validation.Validator, e *enrich.Enricher, d Dispatcher, m *metrics.Recorder, origins []string, opts ...Option) *Handler {
	h := &Handler{
		log:        log,
		validator:  v,
		enricher:   e,
		dispatcher: d,
		metrics:    m,
		origins:    origins,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OriginAllowed reports whether origin starts with one of the allowed
// prefixes. An empty origin is never allowed.
func OriginAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}
	for _, prefix := range allowed {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" && strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// Healthz is a simple health check endpoint.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Preflight answers OPTIONS with an empty 200. The origin is echoed only
// when it is allowed.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if OriginAllowed(origin, h.origins) && w.Header().Get("Access-Control-Allow-Origin") == "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Add("Vary", "Origin")
	}
	w.WriteHeader(http.StatusOK)
}

// MethodNotAllowed rejects every verb the route does not serve.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.metrics.Submission(metrics.OutcomeMethodNotAllowed)
	h.log.Debug("method not allowed", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	h.writeError(w, apperror.MethodNotAllowed())
}

// Submit receives a questionnaire, validates and enriches it, hands it to
// the notification channels and answers with a request id. Notification
// outcomes never change the response.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !OriginAllowed(origin, h.origins) {
		h.log.Warn("origin not allowed", zap.String("origin", origin))
		h.metrics.Submission(metrics.OutcomeForbidden)
		h.writeError(w, apperror.Forbidden())
		return
	}

	var sub model.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&sub); err != nil {
		h.log.Info("failed to decode json", zap.Error(err))
		h.metrics.Submission(metrics.OutcomeInvalidPayload)
		h.writeError(w, apperror.InvalidPayload())
		return
	}

	now := h.now()
	if err := h.validator.Validate(&sub, now); err != nil {
		appErr := apperror.Public(err)
		h.log.Info("validation failed", zap.String("rule", string(appErr.Rule)))
		h.metrics.Submission(metrics.OutcomeInvalid)
		h.metrics.ValidationFailure(string(appErr.Rule))
		h.writeError(w, appErr)
		return
	}

	record := h.enricher.Enrich(&sub, now)
	id := requestid.Generate(record.Athlete.Email, record.Race.Slug, now)
	h.dispatcher.Dispatch(r.Context(), &notify.Request{RequestID: id, Record: record})

	h.metrics.Submission(metrics.OutcomeAccepted)
	h.log.Info("submission accepted",
		zap.String("request_id", id),
		zap.String("race", record.Race.Slug),
		zap.Int("weeks_until_race", record.Race.WeeksUntilRace),
		zap.Int("blindspots", len(record.Blindspots)),
		logger.Email("email", record.Athlete.Email))

	h.writeJSON(w, http.StatusOK, model.SubmitResponse{
		Success:   true,
		Message:   fmt.Sprintf("Training plan request received for %s. We'll be in touch at %s.", record.Race.Name, record.Athlete.Email),
		RequestID: id,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err *apperror.Error) {
	h.writeJSON(w, err.Kind.HTTPStatus(), model.ErrorResponse{Error: err.Message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("unable to write response stream", zap.Error(err))
	}
}

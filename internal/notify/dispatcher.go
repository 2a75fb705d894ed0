package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wattgod/training-plans-component/internal/metrics"
)

// Dispatcher fans an accepted submission out to every configured Notifier.
// Dispatch returns immediately; each notifier runs in its own goroutine on
// a context detached from the HTTP request, so one channel failing or
// stalling never affects the other or the response.
type Dispatcher struct {
	log       *zap.Logger
	metrics   *metrics.Recorder
	notifiers []Notifier
	timeout   time.Duration

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. timeout bounds one delivery round.
func NewDispatcher(log *zap.Logger, m *metrics.Recorder, timeout time.Duration, notifiers ...Notifier) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{log: log, metrics: m, notifiers: notifiers, timeout: timeout}
}

// Channels lists the enabled channels.
func (d *Dispatcher) Channels() []string {
	out := make([]string, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		out = append(out, n.Channel())
	}
	return out
}

// Dispatch starts delivering req in the background. After Stop it drops req.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) {
	if len(d.notifiers) == 0 {
		return
	}

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		d.log.Warn("dispatcher stopped, dropping notification", zap.String("request_id", req.RequestID))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.deliver(context.WithoutCancel(ctx), req)
	}()
}

func (d *Dispatcher) deliver(parent context.Context, req *Request) {
	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	var g errgroup.Group
	for _, n := range d.notifiers {
		g.Go(func() error {
			start := time.Now()
			err := notifySafely(ctx, n, req)
			took := time.Since(start)
			d.metrics.Notification(n.Channel(), err, took)

			if err != nil {
				d.log.Error("notification failed",
					zap.String("channel", n.Channel()),
					zap.String("request_id", req.RequestID),
					zap.Duration("duration", took),
					zap.Error(err))
				return err
			}
			d.log.Info("notification sent",
				zap.String("channel", n.Channel()),
				zap.String("request_id", req.RequestID),
				zap.Duration("duration", took))
			return nil
		})
	}
	_ = g.Wait()
}

// notifySafely turns a panic inside n into an error so one channel cannot
// take down the process or its sibling.
func notifySafely(ctx context.Context, n Notifier, req *Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return n.Notify(ctx, req)
}

// Wait blocks until every dispatched delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Stop refuses new dispatches and waits for in-flight deliveries until ctx
// is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

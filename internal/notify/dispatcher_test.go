package notify

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wattgod/training-plans-component/internal/metrics"
)

type fakeNotifier struct {
	channel string
	err     error
	block   chan struct{}

	mu      sync.Mutex
	calls   []*Request
	ctxErrs []error
	ctxs    []context.Context
}

func (f *fakeNotifier) Channel() string { return f.channel }

func (f *fakeNotifier) Notify(ctx context.Context, req *Request) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.ctxs = append(f.ctxs, ctx)
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func scrape(t *testing.T, m *metrics.Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestDispatcher_FailureDoesNotBlockOtherChannel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()

	email := &fakeNotifier{channel: ChannelEmail, err: errors.New("sendgrid down")}
	automation := &fakeNotifier{channel: ChannelAutomation}
	d := NewDispatcher(zap.New(core), m, time.Second, email, automation)

	d.Dispatch(context.Background(), testRequest())
	d.Wait()

	assert.Equal(t, 1, email.callCount())
	assert.Equal(t, 1, automation.callCount())

	failed := logs.FilterMessage("notification failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, ChannelEmail, failed[0].ContextMap()["channel"])
	assert.Equal(t, "tp-sbt-grvl-jane-doe99-m1abc", failed[0].ContextMap()["request_id"])

	sent := logs.FilterMessage("notification sent").All()
	require.Len(t, sent, 1)
	assert.Equal(t, ChannelAutomation, sent[0].ContextMap()["channel"])

	body := scrape(t, m)
	assert.Contains(t, body, `intake_notifications_total{channel="email",result="failed"} 1`)
	assert.Contains(t, body, `intake_notifications_total{channel="automation",result="sent"} 1`)
}

func TestDispatcher_DetachedFromRequestContext(t *testing.T) {
	n := &fakeNotifier{channel: ChannelEmail, block: make(chan struct{})}
	d := NewDispatcher(zap.NewNop(), nil, time.Second, n)

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, testRequest())
	cancel()
	close(n.block)
	d.Wait()

	require.Equal(t, 1, n.callCount())
	assert.NoError(t, n.ctxErrs[0])
	_, hasDeadline := n.ctxs[0].Deadline()
	assert.True(t, hasDeadline)
}

type panickingNotifier struct {
	channel string
}

func (p *panickingNotifier) Channel() string { return p.channel }

func (p *panickingNotifier) Notify(context.Context, *Request) error {
	var counts map[string]int
	counts["sent"]++
	return nil
}

func TestDispatcher_PanicIsContained(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()

	automation := &fakeNotifier{channel: ChannelAutomation}
	d := NewDispatcher(zap.New(core), m, time.Second, &panickingNotifier{channel: ChannelEmail}, automation)

	d.Dispatch(context.Background(), testRequest())
	d.Wait()

	assert.Equal(t, 1, automation.callCount())

	failed := logs.FilterMessage("notification failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, ChannelEmail, failed[0].ContextMap()["channel"])
	assert.Contains(t, failed[0].ContextMap()["error"], "notifier panic")

	body := scrape(t, m)
	assert.Contains(t, body, `intake_notifications_total{channel="email",result="failed"} 1`)
	assert.Contains(t, body, `intake_notifications_total{channel="automation",result="sent"} 1`)
}

func TestDispatcher_ReturnsBeforeDelivery(t *testing.T) {
	n := &fakeNotifier{channel: ChannelEmail, block: make(chan struct{})}
	d := NewDispatcher(zap.NewNop(), nil, time.Second, n)

	returned := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), testRequest())
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a slow notifier")
	}
	assert.Equal(t, 0, n.callCount())

	close(n.block)
	d.Wait()
	assert.Equal(t, 1, n.callCount())
}

func TestDispatcher_StopDropsNewRequests(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	n := &fakeNotifier{channel: ChannelEmail}
	d := NewDispatcher(zap.New(core), nil, time.Second, n)

	d.Dispatch(context.Background(), testRequest())
	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, 1, n.callCount())

	d.Dispatch(context.Background(), testRequest())
	d.Wait()
	assert.Equal(t, 1, n.callCount())
	assert.Equal(t, 1, logs.FilterMessage("dispatcher stopped, dropping notification").Len())
}

func TestDispatcher_StopHonorsDeadline(t *testing.T) {
	n := &fakeNotifier{channel: ChannelEmail, block: make(chan struct{})}
	d := NewDispatcher(zap.NewNop(), nil, time.Second, n)
	d.Dispatch(context.Background(), testRequest())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)

	close(n.block)
	d.Wait()
}

func TestDispatcher_NoNotifiers(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), nil, 0)
	assert.Empty(t, d.Channels())
	d.Dispatch(context.Background(), testRequest())
	d.Wait()
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_Channels(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), nil, time.Second,
		&fakeNotifier{channel: ChannelEmail}, &fakeNotifier{channel: ChannelAutomation})
	assert.Equal(t, []string{ChannelEmail, ChannelAutomation}, d.Channels())
}

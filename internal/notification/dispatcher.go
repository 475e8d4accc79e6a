package notification

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
)

// DefaultQueueSize is the push queue capacity.
const DefaultQueueSize = 64

// Recorder receives push delivery outcomes.
type Recorder interface {
	RecordNotification(provider string, err error)
}

// Dispatcher delivers notifications to providers from a single background
// worker. Enqueue never blocks: when the queue is full the notification is
// dropped.
type Dispatcher struct {
	providers []Provider
	queue     chan *Notification
	timeout   time.Duration
	recorder  Recorder
	dropped   atomic.Uint64
}

// NewDispatcher validates providers and keeps the enabled, valid ones.
func NewDispatcher(providers []Provider, queueSize int, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	d := &Dispatcher{
		queue:   make(chan *Notification, queueSize),
		timeout: timeout,
	}
	for _, p := range providers {
		if p == nil || !p.IsEnabled() {
			continue
		}
		if err := p.ValidateConfig(); err != nil {
			GetLogger().Warn("push provider disabled: invalid configuration",
				logger.String("provider", p.GetName()),
				logger.Error(err))
			continue
		}
		d.providers = append(d.providers, p)
	}
	return d
}

// SetRecorder sets the delivery outcome recorder. Call before Run.
func (d *Dispatcher) SetRecorder(r Recorder) {
	d.recorder = r
}

// Enabled reports whether any provider is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && len(d.providers) > 0
}

// Enqueue queues n for delivery and reports whether it was accepted. A nil
// or provider-less dispatcher accepts nothing.
func (d *Dispatcher) Enqueue(n *Notification) bool {
	if !d.Enabled() || n == nil {
		return false
	}
	select {
	case d.queue <- n:
		return true
	default:
		d.dropped.Add(1)
		GetLogger().Warn("push queue full, dropping notification",
			logger.String("id", n.ID),
			logger.Uint64("dropped_total", d.dropped.Load()))
		return false
	}
}

// Dropped returns the number of notifications dropped on a full queue.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Run delivers queued notifications until ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n *Notification) {
	for _, p := range d.providers {
		if !p.SupportsType(n.Type) {
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := p.Send(sendCtx, n)
		cancel()

		if d.recorder != nil {
			d.recorder.RecordNotification(p.GetName(), err)
		}
		if err != nil {
			// Build reports to telemetry; delivery failures never reach the user.
			_ = errors.New(err).
				Component("notification").
				Category(errors.CategoryNotification).
				Context("provider", p.GetName()).
				Context("type", string(n.Type)).
				Build()
			GetLogger().Warn("push delivery failed",
				logger.String("provider", p.GetName()),
				logger.String("id", n.ID),
				logger.Error(err))
			continue
		}
		GetLogger().Debug("push delivered",
			logger.String("provider", p.GetName()),
			logger.String("id", n.ID))
	}
}

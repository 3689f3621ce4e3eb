package backend

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lifecompass/attribution/internal/model"
)

// Sink accepts best-effort outbound events. Services enqueue through this
// interface so their local state transitions never wait on the network.
type Sink interface {
	Enqueue(event model.OutboundEvent)
}

// Sender delivers a single outbound event. Client implements this.
type Sender interface {
	Send(ctx context.Context, event model.OutboundEvent) error
}

// OutboxConfig holds settings for the outbound event queue
type OutboxConfig struct {
	// QueueSize is the channel buffer; Enqueue drops (with a log line) when full
	QueueSize int

	// MaxRetries bounds delivery attempts per event before it is dropped
	MaxRetries uint64

	// InitialInterval seeds the exponential backoff between attempts
	InitialInterval time.Duration
}

// DefaultOutboxConfig returns sensible defaults for the outbox
func DefaultOutboxConfig() OutboxConfig {
	return OutboxConfig{
		QueueSize:       64,
		MaxRetries:      5,
		InitialInterval: 500 * time.Millisecond,
	}
}

// Outbox is an in-process queue of outbound events with retry and backoff.
// Delivery is fire-and-forget from the caller's perspective: an event that
// exhausts its retries is dropped and logged, never resurfaced to the code
// that enqueued it.
type Outbox struct {
	sender Sender
	cfg    OutboxConfig
	logger *slog.Logger

	events chan model.OutboundEvent
	stop   chan struct{}
	done   sync.WaitGroup
}

// Ensure Outbox implements Sink
var _ Sink = (*Outbox)(nil)

// NewOutbox creates an outbox draining into the given sender
func NewOutbox(sender Sender, cfg OutboxConfig, logger *slog.Logger) *Outbox {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultOutboxConfig().QueueSize
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultOutboxConfig().InitialInterval
	}

	return &Outbox{
		sender: sender,
		cfg:    cfg,
		logger: logger,
		events: make(chan model.OutboundEvent, cfg.QueueSize),
		stop:   make(chan struct{}),
	}
}

// Start launches the delivery worker
func (o *Outbox) Start() {
	o.done.Add(1)
	go o.run()
}

// Stop shuts down the worker after the current delivery attempt. Queued but
// undelivered events are dropped; they were best-effort to begin with.
func (o *Outbox) Stop() {
	close(o.stop)
	o.done.Wait()
}

// Enqueue queues an event for delivery without blocking. When the queue is
// full the event is dropped and logged.
func (o *Outbox) Enqueue(event model.OutboundEvent) {
	select {
	case o.events <- event:
	default:
		o.logger.Warn("outbox full, dropping event",
			slog.String("type", string(event.Type)),
		)
	}
}

func (o *Outbox) run() {
	defer o.done.Done()

	for {
		select {
		case <-o.stop:
			return
		case event := <-o.events:
			o.deliver(event)
		}
	}
}

func (o *Outbox) deliver(event model.OutboundEvent) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the in-flight attempt if the outbox is stopped
	go func() {
		select {
		case <-o.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = o.cfg.InitialInterval

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, o.cfg.MaxRetries), ctx)

	err := backoff.Retry(func() error {
		return o.sender.Send(ctx, event)
	}, policy)

	if err != nil {
		o.logger.Warn("dropping undeliverable event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()),
		)
		return
	}

	o.logger.Debug("event delivered", slog.String("type", string(event.Type)))
}

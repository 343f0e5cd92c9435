package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"givebridge/pkg/requestcontext"
)

// Sink receives finished events. Implementations: in-memory (tests,
// development), postgres outbox, kafka.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps events with identity and request metadata and hands them to
// a sink, either synchronously or through a buffered background worker.
// Lifecycle services treat Emit as best-effort: a failed event never rolls
// back a donation transition.
type Publisher struct {
	sink   Sink
	logger *slog.Logger

	inbox  chan Event
	done   chan struct{}
	closed sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the given
// channel capacity. When the buffer is full, events are dropped with a log
// line rather than blocking the request path.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

func NewPublisher(sink Sink, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{sink: sink, logger: logger, done: make(chan struct{})}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.inbox != nil {
		go p.run()
	}
	return p
}

// Emit records a lifecycle event, filling in id, timestamp and request
// metadata from the context.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.Device = requestcontext.Device(ctx)

	if p.inbox == nil {
		if err := p.sink.Append(ctx, event); err != nil {
			p.logger.ErrorContext(ctx, "failed to append lifecycle event",
				"event_type", event.Type,
				"donation_id", event.DonationID,
				"error", err,
			)
		}
		return
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "event buffer full, dropping lifecycle event",
			"event_type", event.Type,
			"donation_id", event.DonationID,
		)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	// The worker drains with a background context: request contexts are
	// cancelled as soon as the response is written.
	ctx := context.Background()
	for event := range p.inbox {
		if err := p.sink.Append(ctx, event); err != nil {
			p.logger.Error("failed to append lifecycle event",
				"event_type", event.Type,
				"donation_id", event.DonationID,
				"error", err,
			)
		}
	}
}

// Close drains the async buffer and stops the worker. Safe to call on a
// synchronous publisher and safe to call twice.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.closed.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			<-p.done
		}
	})
}

package eventbus

import (
	"context"
	"errors"
	"sync"

	"github.com/grachmannico95/txengine/pkg/logger"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotStarted     = errors.New("event bus not started")
	ErrClosed         = errors.New("event bus closed")
	ErrNoConsumer     = errors.New("no consumer for event type")
	ErrConsumerExists = errors.New("event type already has a consumer")
)

type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, consumer Consumer) error
	Start(ctx context.Context) error
	// Close marks the end of the stream. Workers drain what is buffered and exit.
	Close()
	// Wait blocks until every worker has exited and returns the first consumer error.
	Wait() error
	Shutdown(ctx context.Context) error
}

type eventBus struct {
	channels      map[EventType]chan Event
	consumers     map[EventType]Consumer
	mu            sync.RWMutex
	inflight      sync.WaitGroup
	group         *errgroup.Group
	ctx           context.Context
	cancel        context.CancelFunc
	logger        *logger.Logger
	channelBuffer int
	started       bool
	closed        bool
}

type Config struct {
	ChannelBuffer int
}

func New(log *logger.Logger, cfg *Config) EventBus {
	if cfg == nil || cfg.ChannelBuffer < 1 {
		cfg = &Config{
			ChannelBuffer: 1024,
		}
	}

	return &eventBus{
		channels:      make(map[EventType]chan Event),
		consumers:     make(map[EventType]Consumer),
		logger:        log,
		channelBuffer: cfg.ChannelBuffer,
	}
}

func (eb *eventBus) Subscribe(eventType EventType, consumer Consumer) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.started {
		return errors.New("cannot subscribe after start")
	}
	if _, exists := eb.consumers[eventType]; exists {
		return ErrConsumerExists
	}

	eb.channels[eventType] = make(chan Event, eb.channelBuffer)
	eb.consumers[eventType] = consumer

	return nil
}

func (eb *eventBus) Start(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.started {
		return nil
	}

	ctx, eb.cancel = context.WithCancel(ctx)
	eb.group, eb.ctx = errgroup.WithContext(ctx)

	for eventType, consumer := range eb.consumers {
		ch := eb.channels[eventType]

		eb.logger.Info(eb.ctx, "Starting worker",
			"event_type", eventType,
		)

		eb.group.Go(func() error {
			return eb.worker(eb.ctx, eventType, ch, consumer)
		})
	}

	eb.started = true
	eb.logger.Info(eb.ctx, "Event bus started")

	return nil
}

func (eb *eventBus) worker(ctx context.Context, eventType EventType, ch <-chan Event, consumer Consumer) error {
	eb.logger.Debug(ctx, "Worker started", "event_type", eventType)

	for {
		select {
		case <-ctx.Done():
			eb.logger.Debug(ctx, "Worker stopping", "event_type", eventType)
			return ctx.Err()
		case event, ok := <-ch:
			if !ok {
				eb.logger.Debug(ctx, "Channel closed, worker stopping", "event_type", eventType)
				return nil
			}

			if err := eb.processEvent(ctx, event, consumer); err != nil {
				return err
			}
		}
	}
}

func (eb *eventBus) processEvent(ctx context.Context, event Event, consumer Consumer) error {
	eventCtx := logger.WithSeq(ctx, event.Seq)
	if event.ID != "" {
		eventCtx = logger.WithEventID(eventCtx, event.ID)
	}

	if eb.logger.Enabled(zapcore.DebugLevel) {
		eb.logger.Debug(eventCtx, "Processing event",
			"event_type", event.Type,
		)
	}

	if err := consumer.Consume(eventCtx, event); err != nil {
		eb.logger.Error(eventCtx, "Failed to process event",
			"event_type", event.Type,
			"error", err,
		)
		return err
	}

	return nil
}

// Publish blocks while the channel is full. Events are never dropped: the
// call returns only once the event is queued, the caller's context ends, or
// the bus stops. The lock is not held while blocked; Close waits for
// in-flight publishes before closing the channels.
func (eb *eventBus) Publish(ctx context.Context, event Event) error {
	ch, err := eb.acquire(ctx, event)
	if err != nil {
		return err
	}
	defer eb.inflight.Done()

	select {
	case ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-eb.ctx.Done():
		return ErrClosed
	}
}

// acquire looks up the channel for event and registers an in-flight publish.
func (eb *eventBus) acquire(ctx context.Context, event Event) (chan<- Event, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if !eb.started {
		return nil, ErrNotStarted
	}
	if eb.closed {
		return nil, ErrClosed
	}

	ch, exists := eb.channels[event.Type]
	if !exists {
		eb.logger.Warn(ctx, "No channel for event type",
			"event_type", event.Type,
			"event_id", event.ID,
		)
		return nil, ErrNoConsumer
	}

	eb.inflight.Add(1)
	return ch, nil
}

// Close marks the bus closed, waits for publishes already past the closed
// check, then closes the channels so workers drain and exit.
func (eb *eventBus) Close() {
	eb.mu.Lock()
	if eb.closed {
		eb.mu.Unlock()
		return
	}
	eb.closed = true
	eb.mu.Unlock()

	eb.inflight.Wait()

	eb.mu.Lock()
	defer eb.mu.Unlock()
	for _, ch := range eb.channels {
		close(ch)
	}
}

func (eb *eventBus) Wait() error {
	eb.mu.RLock()
	group := eb.group
	eb.mu.RUnlock()

	if group == nil {
		return ErrNotStarted
	}

	return group.Wait()
}

func (eb *eventBus) Shutdown(ctx context.Context) error {
	eb.logger.Info(ctx, "Shutting down event bus")

	if eb.cancel != nil {
		eb.cancel()
	}

	done := make(chan struct{})
	go func() {
		_ = eb.Wait()
		close(done)
	}()

	select {
	case <-done:
		eb.logger.Info(ctx, "Event bus shutdown complete")
		return nil
	case <-ctx.Done():
		eb.logger.Warn(ctx, "Event bus shutdown timeout")
		return ctx.Err()
	}
}

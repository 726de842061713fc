// Package eventbus provides an in-memory, asynchronous event bus. Events are
// queued on a buffered channel and fanned out to listeners by a worker pool,
// so publishers never wait on slow listeners such as mail delivery.
package eventbus

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultWorkers    = 3
	defaultBufferSize = 100
)

// EventBus is the interface for publishing events and managing subscribers.
type EventBus interface {
	// Publish enqueues an event with the given type and payload.
	// It never blocks: if the buffer is full, the event is dropped and a warning is logged.
	Publish(eventType string, payload map[string]string)

	// Subscribe registers a listener that will be called for every published event.
	// Subscribe must be called before the first Publish.
	Subscribe(listener Listener)

	// Close stops accepting new events and waits for all pending events to be processed.
	Close()
}

// Options configures an in-memory bus.
type Options struct {
	Workers    int
	BufferSize int
	Logger     *slog.Logger
}

type inMemoryBus struct {
	ch        chan Event
	listeners []Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	// sendMu guards closed and sends on ch.
	sendMu sync.RWMutex
	closed bool
	logger *slog.Logger
}

// New creates an in-memory EventBus. Zero values in opts fall back to
// 3 workers and a buffer of 100 events.
func New(opts Options) EventBus {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &inMemoryBus{
		ch:     make(chan Event, opts.BufferSize),
		logger: opts.Logger,
	}
	for i := 0; i < opts.Workers; i++ {
		b.wg.Add(1)
		go b.work()
	}
	return b
}

func (b *inMemoryBus) work() {
	defer b.wg.Done()
	for e := range b.ch {
		b.dispatch(e)
	}
}

// dispatch calls every listener; a panicking listener does not stop the others.
func (b *inMemoryBus) dispatch(e Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("eventbus: listener panicked", "event", e.Type, "panic", r)
				}
			}()
			l(e)
		}()
	}
}

func (b *inMemoryBus) Publish(eventType string, payload map[string]string) {
	b.sendMu.RLock()
	defer b.sendMu.RUnlock()
	if b.closed {
		b.logger.Warn("eventbus: publish after close, dropping event", "event", eventType)
		return
	}

	e := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	select {
	case b.ch <- e:
	default:
		b.logger.Warn("eventbus: buffer full, dropping event", "event", eventType)
	}
}

func (b *inMemoryBus) Subscribe(listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

func (b *inMemoryBus) Close() {
	b.sendMu.Lock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	b.sendMu.Unlock()
	b.wg.Wait()
}

package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

// ErrBusFull is returned when the buffer is saturated; the event is dropped.
var ErrBusFull = errors.New("event bus buffer full")

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus closed")

// LocalBus delivers events in-process through a buffered channel drained by
// a fixed set of worker goroutines.
type LocalBus struct {
	queue          chan BookingEvent
	handlers       []Handler
	workers        int
	handlerTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewLocalBus(bufferSize, workers int, handlerTimeout time.Duration, handlers ...Handler) *LocalBus {
	if workers < 1 {
		workers = 1
	}
	return &LocalBus{
		queue:          make(chan BookingEvent, bufferSize),
		handlers:       handlers,
		workers:        workers,
		handlerTimeout: handlerTimeout,
	}
}

// Start launches the workers. They exit once Close drains the queue.
func (b *LocalBus) Start() {
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for ev := range b.queue {
				b.dispatch(ev)
			}
		}()
	}
}

func (b *LocalBus) Publish(_ context.Context, ev BookingEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.queue <- ev:
		return nil
	default:
		return ErrBusFull
	}
}

// Close stops accepting events and waits for queued ones to be handled.
func (b *LocalBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *LocalBus) dispatch(ev BookingEvent) {
	Dispatch(ev, b.handlerTimeout, b.handlers...)
}

// Dispatch runs every handler for ev. A failing or panicking handler is
// logged and does not stop the others.
func Dispatch(ev BookingEvent, timeout time.Duration, handlers ...Handler) {
	for _, h := range handlers {
		func() {
			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			defer func() {
				if r := recover(); r != nil {
					utils.Logger.WithFields(logrus.Fields{
						"event_id": ev.ID,
						"type":     ev.Type,
						"panic":    r,
					}).Error("event handler panicked")
				}
			}()
			if err := h(ctx, ev); err != nil {
				utils.Logger.WithError(err).WithFields(logrus.Fields{
					"event_id": ev.ID,
					"type":     ev.Type,
				}).Warn("event handler failed")
			}
		}()
	}
}

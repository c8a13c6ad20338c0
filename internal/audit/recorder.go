// Package audit provides fire-and-forget request logging for the gateway.
//
// The booking flow emits one event when a request arrives and one when
// it reaches a terminal outcome. Events are handed to a [Recorder] and
// must never block or fail the request flow: the [Logger] implementation
// queues them on a buffered channel and writes them to the request log
// store from a background worker, dropping events when the queue is full.
//
// # Concurrency
//
// Record is safe for concurrent use. The worker processes events
// sequentially; ordering is preserved per Logger instance.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vronhq/vron-gateway/internal/storage"
)

// Event is one audit record emitted by the booking flow.
type Event struct {
	ID                string
	ExternalReference string
	Status            storage.LogStatus
	ErrorMessage      string
	At                time.Time
}

// Recorder accepts audit events. Implementations must not block.
type Recorder interface {
	Record(ev Event)
}

// Logger is a Recorder backed by a request log store and a background
// worker.
type Logger struct {
	store  storage.RequestLogStore
	logger *slog.Logger

	events chan Event

	writeTimeout time.Duration

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds logger configuration
type Config struct {
	BufferSize   int
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BufferSize:   256,
		WriteTimeout: 5 * time.Second,
	}
}

// NewLogger creates a new audit logger
func NewLogger(store storage.RequestLogStore, cfg *Config, logger *slog.Logger) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Logger{
		store:        store,
		logger:       logger,
		events:       make(chan Event, bufferSize),
		writeTimeout: writeTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the background worker
func (l *Logger) Start() {
	l.wg.Add(1)
	go l.run()
}

// Stop drains queued events and stops the worker
func (l *Logger) Stop() {
	l.cancel()
	l.wg.Wait()
}

// Record queues an event. It never blocks: when the queue is full the
// event is dropped and a warning is logged.
func (l *Logger) Record(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	select {
	case l.events <- ev:
	default:
		l.logger.Warn("audit queue full, dropping event",
			slog.String("external_reference", ev.ExternalReference),
			slog.String("status", string(ev.Status)))
	}
}

func (l *Logger) run() {
	defer l.wg.Done()

	for {
		select {
		case ev := <-l.events:
			l.write(ev)
		case <-l.ctx.Done():
			// Drain what is already queued before exiting
			for {
				select {
				case ev := <-l.events:
					l.write(ev)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) write(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
	defer cancel()

	entry := &storage.LogEntry{
		ID:                ev.ID,
		ExternalReference: ev.ExternalReference,
		Status:            ev.Status,
		ErrorMessage:      ev.ErrorMessage,
		CreatedAt:         ev.At,
	}
	if err := l.store.CreateLogEntry(ctx, entry); err != nil {
		l.logger.Error("writing audit entry",
			slog.String("external_reference", ev.ExternalReference),
			slog.String("error", err.Error()))
	}
}

// Package ingest runs the background pipeline for extracted webhook
// messages: normalize, optionally retrieve media, persist. It runs off the
// webhook's critical path so the ack is never blocked by network calls.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hookbridge/hookbridge/internal/message"
)

// Store persists canonical messages.
type Store interface {
	Save(ctx context.Context, msg message.Message) error
}

// MediaStore retrieves a media attachment and persists it in object
// storage, returning the storage key.
type MediaStore interface {
	Store(ctx context.Context, mediaID, mimeType string) (string, error)
}

// Orchestrator wires the pipeline stages together, one detached run per
// inbound message. Concurrent runs share no mutable state; the store's
// unique constraint on the message id is the only serialization point.
type Orchestrator struct {
	logger        *slog.Logger
	store         Store
	media         MediaStore
	storeAttempts int
	storeBackoff  time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewOrchestrator(log *slog.Logger, store Store, media MediaStore, storeAttempts int) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	if storeAttempts <= 0 {
		storeAttempts = 3
	}
	return &Orchestrator{
		logger:        log.With(slog.String("component", "ingest")),
		store:         store,
		media:         media,
		storeAttempts: storeAttempts,
		storeBackoff:  500 * time.Millisecond,
	}
}

// Enqueue hands one extracted message to the background pipeline and
// returns immediately. After Shutdown has begun new work is dropped.
func (o *Orchestrator) Enqueue(raw json.RawMessage) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		o.logger.Warn("message dropped: shutting down")
		return
	}
	o.wg.Add(1)
	o.mu.Unlock()

	go func() {
		defer o.wg.Done()
		o.process(context.Background(), raw)
	}()
}

// process runs one message through normalize -> media -> store.
func (o *Orchestrator) process(ctx context.Context, raw json.RawMessage) {
	msg := message.Normalize(raw, time.Now().UTC())
	log := o.logger.With(
		slog.String("wa_message_id", msg.WAMessageID),
		slog.String("type", string(msg.Type)),
	)

	if msg.HasMedia() && o.media != nil {
		key, err := o.media.Store(ctx, msg.MediaID, msg.MimeType)
		if err != nil {
			// Partial data beats losing the event: persist the message
			// without a storage key and leave the failure in the logs.
			log.Warn("media retrieval failed",
				slog.String("media_id", msg.MediaID),
				slog.Any("error", err),
			)
		} else {
			msg.StorageKey = key
		}
	}

	o.save(ctx, log, msg)
}

// save persists with a small bounded retry for infrastructure failures.
// Duplicates are the expected outcome of provider redelivery and end the
// run quietly.
func (o *Orchestrator) save(ctx context.Context, log *slog.Logger, msg message.Message) {
	backoff := o.storeBackoff
	for attempt := 1; ; attempt++ {
		err := o.store.Save(ctx, msg)
		if err == nil {
			log.Info("message stored", slog.Bool("has_media", msg.StorageKey != ""))
			return
		}
		if errors.Is(err, message.ErrDuplicate) {
			log.Debug("duplicate delivery discarded")
			return
		}
		if attempt >= o.storeAttempts {
			log.Error("message not stored, giving up",
				slog.Int("attempts", attempt),
				slog.Any("error", err),
			)
			return
		}
		log.Warn("store failed, retrying",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		select {
		case <-ctx.Done():
			log.Error("store retry abandoned", slog.Any("error", ctx.Err()))
			return
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// Shutdown stops accepting new work and waits for in-flight pipeline runs
// until the context expires.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

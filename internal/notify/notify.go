// Package notify delivers the short user-facing messages (toasts) the cart
// raises when an operation is rejected.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Level string

const LevelError Level = "error"

type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed queues notifications until a UI drains them. When full the oldest
// entry is dropped.
type Feed struct {
	mu      sync.Mutex
	limit   int
	pending []Notification
	now     func() time.Time
}

func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 1
	}
	return &Feed{limit: limit, now: time.Now}
}

func (f *Feed) Error(_ context.Context, msg string) {
	n := Notification{
		ID:      uuid.NewString(),
		Level:   LevelError,
		Message: msg,
		At:      f.now().UTC(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == f.limit {
		f.pending = f.pending[1:]
	}
	f.pending = append(f.pending, n)
}

// Drain returns pending notifications oldest first and clears the queue.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.pending
	f.pending = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Log writes notifications to a zap logger.
type Log struct {
	L *zap.Logger
}

func (l Log) Error(_ context.Context, msg string) {
	if l.L == nil {
		return
	}
	l.L.Info("notification", zap.String("level", string(LevelError)), zap.String("message", msg))
}

type Sink interface {
	Error(ctx context.Context, msg string)
}

// Tee fans out to every sink in order.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Error(ctx context.Context, msg string) {
	for _, s := range t {
		s.Error(ctx, msg)
	}
}

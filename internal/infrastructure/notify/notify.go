// Package notify holds in-process notification sinks.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/ports"
)

// LogNotifier writes every notification to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

// NewLogNotifier wraps logger; nil discards.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs at info level, or warn level for error notifications.
func (l *LogNotifier) Notify(ctx context.Context, n domain.Notification) error {
	if l.logger == nil {
		return nil
	}
	level := slog.LevelInfo
	if n.Kind == domain.KindError {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, n.Title, "body", n.Body, "kind", n.Kind)
	return nil
}

// Fanout forwards notifications to several sinks.
type Fanout []ports.Notifier

var _ ports.Notifier = Fanout(nil)

// Notify delivers to every sink, even after a failure, and joins the errors.
func (f Fanout) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps notifications in memory, in delivery order.
type Recorder struct {
	mu   sync.Mutex
	sent []domain.Notification
}

var _ ports.Notifier = (*Recorder)(nil)

// Notify records n.
func (r *Recorder) Notify(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

// Sent returns a copy of everything recorded so far.
func (r *Recorder) Sent() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

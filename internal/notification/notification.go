package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is a short message shown to the shopper of a session
type Notification struct {
	SessionID   string    `json:"session_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     string    `json:"variant"`
	EventType   string    `json:"event_type,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Sink delivers notifications to shoppers
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

type SinkFunc func(ctx context.Context, n Notification) error

func (f SinkFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// LogSink writes notifications to a logger. Used where no shopper is
// connected, such as the standalone notifier.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Notify(ctx context.Context, n Notification) error {
	s.Logger.Info("notification",
		zap.String("session_id", n.SessionID),
		zap.String("title", n.Title),
		zap.String("description", n.Description))
	return nil
}

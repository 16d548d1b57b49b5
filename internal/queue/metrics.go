package queue

import (
	"context"
	"time"
)

// MetricsPublisher is the interface for the outbound metrics sink.
// Publishing is best-effort: callers treat failures as observability
// loss, never as an operation failure.
type MetricsPublisher interface {
	// Publish sends a metric event to the sink.
	Publish(ctx context.Context, event *MetricEvent) error

	// Close closes the sink connection.
	Close() error
}

// MetricEvent is a single observability event emitted after a domain
// operation.
type MetricEvent struct {
	Name      string            `json:"name"`
	UserID    string            `json:"user_id,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewMetricEvent creates a metric event stamped with the current time.
func NewMetricEvent(name, userID string) *MetricEvent {
	return &MetricEvent{
		Name:      name,
		UserID:    userID,
		Labels:    make(map[string]string),
		Timestamp: time.Now(),
	}
}

// WithLabel attaches a label to the event and returns it for chaining.
func (e *MetricEvent) WithLabel(key, value string) *MetricEvent {
	e.Labels[key] = value
	return e
}

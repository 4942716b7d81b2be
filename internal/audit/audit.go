// Package audit emits lifecycle events for every transaction transition.
// Publishing is fire and forget: an audit failure is logged, never surfaced
// to the transaction path.
package audit

import (
	"context"
	"time"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// Event types emitted over a transaction's lifecycle.
const (
	EventCreated           = "created"
	EventForwarded         = "forwarded"
	EventTerminal          = "terminal"
	EventResponseForwarded = "response_forwarded"
	EventCorrelationMiss   = "correlation_miss"
	EventRejected          = "rejected"
)

// Event is one auditable lifecycle transition.
type Event struct {
	TxnID     string      `json:"txn_id"`
	Family    npci.Family `json:"family"`
	EventType string      `json:"event_type"`
	State     string      `json:"state,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher delivers audit events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event. Used when no brokers are configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

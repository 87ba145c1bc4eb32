package events

import (
	"context"
	"time"
)

const (
	TypeOrderPlaced     = "order.placed"
	TypeOrderDelivered  = "order.delivered"
	TypePayoutRequested = "payout.requested"
	TypePayoutApproved  = "payout.approved"
	TypePayoutSettled   = "payout.settled"
)

// Event is published after the change it describes has committed.
type Event struct {
	EventID   string            `json:"event_id"`
	Type      string            `json:"type"`
	Key       string            `json:"key"`
	ActorID   string            `json:"actor_id,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

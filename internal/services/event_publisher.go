package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/todamoon/terminal/internal/models"
)

// QueueEvent is the dashboard feed record pushed after a committed transition.
type QueueEvent struct {
	Action         models.QueueAction `json:"action"`
	UID            string             `json:"uid"`
	Name           string             `json:"name"`
	BarangayName   string             `json:"barangayName"`
	TricycleNumber string             `json:"tricycleNumber"`
	Amount         int64              `json:"amount"`
	Balance        int64              `json:"balance"`
	Terminal       string             `json:"terminal"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

// EventPublisher appends queue events to a redis list. It never fails the
// scan: the transition is already committed when it runs.
type EventPublisher struct {
	redis      *redis.Client
	key        string
	terminalID string
}

// NewEventPublisher accepts a nil client, in which case Publish is a no-op.
func NewEventPublisher(client *redis.Client, key, terminalID string) *EventPublisher {
	return &EventPublisher{
		redis:      client,
		key:        key,
		terminalID: terminalID,
	}
}

// Publish pushes a committed transition. Failures are logged and dropped.
func (p *EventPublisher) Publish(ctx context.Context, t *Transition) {
	if p.redis == nil || t == nil {
		return
	}

	event := QueueEvent{
		Action:         t.Action,
		UID:            t.Account.UID,
		Name:           t.Account.Name,
		BarangayName:   t.Account.Barangay(),
		TricycleNumber: t.Account.TricycleNumber,
		Amount:         t.Fee,
		Balance:        t.Account.Balance,
		Terminal:       p.terminalID,
		OccurredAt:     t.CommittedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[EVENTS] Failed to marshal event for %s: %v", event.UID, err)
		return
	}

	if err := p.redis.RPush(ctx, p.key, string(data)).Err(); err != nil {
		log.Printf("[EVENTS] Failed to publish %s event for %s: %v", event.Action, event.UID, err)
	}
}

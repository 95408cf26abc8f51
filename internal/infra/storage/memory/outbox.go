package memory

import (
	"context"
	"sync"

	appoutbox "staybook/internal/app/outbox"
)

// Outbox accumulates event records until the worker drains them.
type Outbox struct {
	mu      sync.Mutex
	pending []appoutbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, record)
	return nil
}

// Pending returns up to limit unpublished records in insertion order.
func (o *Outbox) Pending(ctx context.Context, limit int) ([]appoutbox.EventRecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if limit <= 0 || limit > len(o.pending) {
		limit = len(o.pending)
	}
	out := make([]appoutbox.EventRecord, limit)
	copy(out, o.pending[:limit])
	return out, nil
}

// MarkPublished removes records from the queue once the broker accepted them.
func (o *Outbox) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	published := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		published[id] = struct{}{}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	remaining := o.pending[:0]
	for _, rec := range o.pending {
		if _, ok := published[rec.ID]; !ok {
			remaining = append(remaining, rec)
		}
	}
	o.pending = remaining
	return nil
}

var _ appoutbox.Outbox = (*Outbox)(nil)

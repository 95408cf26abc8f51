package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staybook/internal/domain/shared/events"
)

// EventRecord is a serialized domain event awaiting publication.
type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
}

type EventEncoder interface {
	Encode(ev events.DomainEvent) (EventRecord, error)
}

type JSONEventEncoder struct {
	IDGenerator func() string
}

func (e JSONEventEncoder) Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, err
	}
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = defaultIDGenerator
	}
	return EventRecord{
		ID:         idGen(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt(),
		Aggregate:  ev.AggregateID(),
		Headers:    map[string]string{},
	}, nil
}

// RecordDomainEvents drains aggregate events into the outbox inside the
// current unit of work.
func RecordDomainEvents(ctx context.Context, box Outbox, encoder EventEncoder, evs []events.DomainEvent) error {
	if box == nil || len(evs) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, ev := range evs {
		rec, err := encoder.Encode(ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// EventSource is any aggregate that buffers domain events.
type EventSource interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}

// DrainSources moves pending events from the given aggregates into the
// outbox and clears their buffers.
func DrainSources(ctx context.Context, box Outbox, encoder EventEncoder, sources ...EventSource) error {
	if box == nil {
		return nil
	}
	pending := make([]events.DomainEvent, 0)
	for _, source := range sources {
		pending = append(pending, source.PendingEvents()...)
		source.ClearEvents()
	}
	return RecordDomainEvents(ctx, box, encoder, pending)
}

func defaultIDGenerator() string {
	return fmt.Sprintf("evt-%d", time.Now().UnixNano())
}

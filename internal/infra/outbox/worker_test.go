package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/infra/storage/memory"
)

type publishedMessage struct {
	Topic   string
	Key     string
	Payload []byte
	Headers map[string]string
}

type fakeProducer struct {
	messages []publishedMessage
	failOn   string
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.failOn != "" && topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, publishedMessage{Topic: topic, Key: key, Payload: payload, Headers: headers})
	return nil
}

func addRecord(t *testing.T, box *memory.Outbox, id, name, aggregate string) {
	t.Helper()
	require.NoError(t, box.Add(context.Background(), appoutbox.EventRecord{
		ID:         id,
		Name:       name,
		Payload:    []byte(`{"booking_id":"` + aggregate + `"}`),
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Aggregate:  aggregate,
	}))
}

func TestProcessOnceWrapsEventsInCloudEvents(t *testing.T) {
	box := memory.NewOutbox()
	addRecord(t, box, "evt-1", "booking.requested", "booking-1")
	producer := &fakeProducer{}

	w := &Worker{Store: box, Producer: producer, TopicPrefix: "staybook"}
	require.NoError(t, w.processOnce(context.Background()))

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "staybook.booking.events.v1", msg.Topic)
	assert.Equal(t, "booking-1", msg.Key)
	assert.Equal(t, "application/cloudevents+json", msg.Headers["content-type"])

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &envelope))
	assert.Equal(t, "1.0", envelope["specversion"])
	assert.Equal(t, "booking.requested.v1", envelope["type"])
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "booking-1", data["booking_id"])

	pending, err := box.Pending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessOnceRetriesFailedPublish(t *testing.T) {
	box := memory.NewOutbox()
	addRecord(t, box, "evt-1", "booking.requested", "booking-1")
	producer := &fakeProducer{failOn: "booking.events.v1"}

	w := &Worker{Store: box, Producer: producer}
	require.NoError(t, w.processOnce(context.Background()))

	pending, err := box.Pending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "evt-1", pending[0].ID)

	producer.failOn = ""
	require.NoError(t, w.processOnce(context.Background()))
	pending, err = box.Pending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessOnceDropsUnserializableRecords(t *testing.T) {
	box := memory.NewOutbox()
	require.NoError(t, box.Add(context.Background(), appoutbox.EventRecord{
		ID:        "evt-bad",
		Name:      "booking.requested",
		Payload:   []byte("not json"),
		Aggregate: "booking-1",
	}))
	producer := &fakeProducer{}

	w := &Worker{Store: box, Producer: producer}
	require.NoError(t, w.processOnce(context.Background()))

	assert.Empty(t, producer.messages)
	pending, err := box.Pending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	box := memory.NewOutbox()
	w := &Worker{Store: box, Producer: &fakeProducer{}, Interval: time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

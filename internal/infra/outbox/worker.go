package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appoutbox "staybook/internal/app/outbox"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// Store is a pollable outbox: records stay pending until the broker
// has accepted them.
type Store interface {
	Pending(ctx context.Context, limit int) ([]appoutbox.EventRecord, error)
	MarkPublished(ctx context.Context, ids []string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error
}

// Worker drains the outbox into Kafka on a fixed interval. Failed
// publishes stay pending and are retried on the next tick.
type Worker struct {
	Store       Store
	Producer    Producer
	Logger      *slog.Logger
	Interval    time.Duration
	BatchSize   int
	TopicPrefix string
	Source      string
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.processOnce(ctx); err != nil && w.Logger != nil {
				w.Logger.Error("outbox drain failed", "error", err)
			}
		}
	}
}

func (w *Worker) processOnce(ctx context.Context) error {
	records, err := w.Store.Pending(ctx, w.batchSize())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	published := make([]string, 0, len(records))
	for _, record := range records {
		payload, headers, err := w.envelope(record)
		if err != nil {
			// A record that cannot be serialized will never succeed;
			// drop it rather than wedging the queue.
			if w.Logger != nil {
				w.Logger.Error("outbox record unserializable, dropping", "event_id", record.ID, "event", record.Name, "error", err)
			}
			published = append(published, record.ID)
			continue
		}
		if err := w.Producer.Publish(ctx, w.topicFor(record.Name), record.Aggregate, payload, headers); err != nil {
			if w.Logger != nil {
				w.Logger.Warn("outbox publish failed, will retry", "event_id", record.ID, "event", record.Name, "error", err)
			}
			break
		}
		published = append(published, record.ID)
	}
	return w.Store.MarkPublished(ctx, published)
}

// envelope wraps the stored payload in a CloudEvents JSON envelope.
func (w *Worker) envelope(record appoutbox.EventRecord) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if err := json.Unmarshal(record.Payload, &data); err != nil {
		return nil, nil, err
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            record.Name + ".v1",
		"source":          w.source(),
		"time":            record.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range record.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	topic := base + ".events.v1"
	if w.TopicPrefix != "" {
		topic = w.TopicPrefix + "." + topic
	}
	return topic
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) batchSize() int {
	if w.BatchSize <= 0 {
		return 64
	}
	return w.BatchSize
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://staybook"
}

package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "staybook/internal/app/outbox"
)

// Outbox persists event records in the same database as the aggregates
// so the transaction covers both.
type Outbox struct {
	col *mongo.Collection
}

func NewOutbox(db *mongo.Database) *Outbox {
	return &Outbox{col: db.Collection("outbox")}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := outboxDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
		OccurredAt: record.OccurredAt.UnixMilli(),
		Published:  false,
	}
	_, err := o.col.InsertOne(ctx, doc)
	return err
}

func (o *Outbox) Pending(ctx context.Context, limit int) ([]appoutbox.EventRecord, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	if limit > 0 {
		findOpts = findOpts.SetLimit(int64(limit))
	}
	cursor, err := o.col.Find(ctx, bson.M{"published": false}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]appoutbox.EventRecord, 0)
	for cursor.Next(ctx) {
		var doc outboxDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, appoutbox.EventRecord{
			ID:         doc.ID,
			Name:       doc.Name,
			Payload:    doc.Payload,
			Aggregate:  doc.Aggregate,
			Headers:    doc.Headers,
			OccurredAt: timestampToTime(doc.OccurredAt),
		})
	}
	return out, cursor.Err()
}

func (o *Outbox) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := o.col.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": bson.M{"published": true}})
	return err
}

type outboxDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Payload    []byte            `bson:"payload"`
	Aggregate  string            `bson:"aggregate"`
	Headers    map[string]string `bson:"headers"`
	OccurredAt int64             `bson:"occurred_at"`
	Published  bool              `bson:"published"`
}

var _ appoutbox.Outbox = (*Outbox)(nil)

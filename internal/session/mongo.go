package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionDoc is one stored session. MongoDB's TTL monitor removes the
// document once expires_at passes; Load double-checks because the monitor
// only sweeps about once a minute.
type sessionDoc struct {
	ID        string    `bson:"_id"`
	Data      string    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoStore keeps session blobs in a "sessions" collection.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore ensures the TTL index and returns the store.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	col := db.Collection("sessions")
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("session ttl index: %w", err)
	}
	return &MongoStore{col: col}, nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (string, error) {
	var doc sessionDoc
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !time.Now().Before(doc.ExpiresAt) {
		return "", nil
	}
	return doc.Data, nil
}

func (s *MongoStore) Save(ctx context.Context, id, blob string, ttl time.Duration) error {
	doc := sessionDoc{ID: id, Data: blob, ExpiresAt: time.Now().Add(ttl)}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

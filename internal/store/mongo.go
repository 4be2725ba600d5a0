package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aydenq/members-only/internal/models"
)

// MongoStore handles user records in a "users" collection.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("users")}
}

func (s *MongoStore) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	if _, err := s.col.InsertOne(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUsersByEmail returns every record matching the email so the caller
// can enforce the exactly-one rule on login.
func (s *MongoStore) GetUsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	cur, err := s.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Exists reports whether a record already claims the username or, when
// email is non-empty, the email.
func (s *MongoStore) Exists(ctx context.Context, username, email string) (bool, error) {
	or := []bson.M{{"username": username}}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	n, err := s.col.CountDocuments(ctx, bson.M{"$or": or})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Package mongo holds the MongoDB-backed draft store.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

// DraftStore keeps at most one draft per user, enforced by the unique user_id index.
type DraftStore struct {
	coll *mongo.Collection
}

func NewDraftStore(coll *mongo.Collection) *DraftStore {
	return &DraftStore{coll: coll}
}

// Get returns the user's draft, or nil when there is none.
func (s *DraftStore) Get(ctx context.Context, userID string) (*models.Draft, error) {
	var d models.Draft
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, models.StoreError("get draft", err)
	}
	return &d, nil
}

// Save replaces the draft's title, content and mood, creating the slot when missing.
func (s *DraftStore) Save(ctx context.Context, d models.Draft) (*models.Draft, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":      d.Title,
			"content":    d.Content,
			"mood":       d.Mood,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Draft
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"user_id": d.UserID}, update, opts).Decode(&saved)
	if err != nil {
		return nil, models.StoreError("save draft", err)
	}
	return &saved, nil
}

// Clear removes every draft of the user. Clearing an empty slot is not an error.
func (s *DraftStore) Clear(ctx context.Context, userID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return models.StoreError("clear draft", err)
	}
	return nil
}

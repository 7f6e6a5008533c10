package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/storylens-backend/internal/config"
)

// DraftsCollection is the MongoDB collection holding one draft per user.
const DraftsCollection = "drafts"

// NewMongo connects to MongoDB, pings it and makes sure the drafts indexes exist.
// Callers own the returned client and must Disconnect it on shutdown.
func NewMongo(ctx context.Context, cfg config.MongoConfig, log *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := EnsureDraftIndexes(ctx, db); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info("connected to mongo", slog.String("database", cfg.Database))
	return client, db, nil
}

// EnsureDraftIndexes creates the unique user_id index that keeps drafts single-slot.
func EnsureDraftIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(DraftsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("drafts_user_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("create drafts index: %w", err)
	}
	return nil
}

// DisconnectMongo closes the client with a bounded timeout.
func DisconnectMongo(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

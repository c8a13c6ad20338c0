// Package mongodb implements storage interfaces using MongoDB
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"

	"github.com/vronhq/vron-gateway/internal/storage"
)

// Store implements storage.Store using MongoDB
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	// Collections
	keys       *mongo.Collection
	requestLog *mongo.Collection
}

// Config holds MongoDB connection settings
type Config struct {
	URI      string
	Database string
}

// NewStore creates a new MongoDB store
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)

	s := &Store{
		client:     client,
		db:         db,
		keys:       db.Collection("keys"),
		requestLog: db.Collection("request_log"),
	}

	if err := s.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("creating indexes: %w", err)
	}

	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	_, err := s.keys.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("creating key indexes: %w", err)
	}

	_, err = s.requestLog.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "external_reference", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating request log indexes: %w", err)
	}

	return nil
}

// Key operations

// CreateKey stores a new partner key record
func (s *Store) CreateKey(ctx context.Context, key *storage.Key) error {
	if key.ID == "" {
		key.ID = uuid.New().String()
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now()
	}

	if _, err := s.keys.InsertOne(ctx, key); err != nil {
		return fmt.Errorf("inserting key: %w", err)
	}
	return nil
}

// GetKeyByName retrieves a key record by host identity
func (s *Store) GetKeyByName(ctx context.Context, name string) (*storage.Key, error) {
	var key storage.Key
	err := s.keys.FindOne(ctx, bson.M{"name": name}).Decode(&key)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding key: %w", err)
	}
	return &key, nil
}

// DeleteKey removes a key record by host identity
func (s *Store) DeleteKey(ctx context.Context, name string) error {
	res, err := s.keys.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("deleting key: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Request log operations

// CreateLogEntry appends an audit record
func (s *Store) CreateLogEntry(ctx context.Context, entry *storage.LogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if _, err := s.requestLog.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}
	return nil
}

// ListLogEntries returns audit records for an external reference, oldest first
func (s *Store) ListLogEntries(ctx context.Context, externalReference string) ([]*storage.LogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.requestLog.Find(ctx, bson.M{"external_reference": externalReference}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding log entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*storage.LogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decoding log entries: %w", err)
	}
	return entries, nil
}

// Close disconnects from MongoDB
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

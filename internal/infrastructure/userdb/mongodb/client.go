// Package mongodb provides the MongoDB implementation of the user store.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// UsersCollection is the name of the users collection.
	UsersCollection = "users"
	// APIKeysCollection is the name of the API keys collection.
	APIKeysCollection = "api_keys"

	connectTimeout = 10 * time.Second
)

// ClientConfig holds the configuration for the MongoDB client.
type ClientConfig struct {
	URI          string
	DatabaseName string
}

// Store implements the userdb.Store interface for MongoDB.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	users   *mongo.Collection
	apiKeys *mongo.Collection
}

// NewStore creates a new MongoDB-backed store and verifies the connection.
func NewStore(ctx context.Context, cfg *ClientConfig) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if cfg.DatabaseName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.DatabaseName)

	return &Store{
		client:  client,
		db:      db,
		users:   db.Collection(UsersCollection),
		apiKeys: db.Collection(APIKeysCollection),
	}, nil
}

// Ping checks if the MongoDB connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

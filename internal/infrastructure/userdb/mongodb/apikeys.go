package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
)

// ListAPIKeys returns the user's keys ordered by AddedAt.
func (s *Store) ListAPIKeys(ctx context.Context, telegramID int64) ([]*models.APIKey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}})

	cursor, err := s.apiKeys.Find(ctx, bson.M{"userId": telegramID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer cursor.Close(ctx)

	var keys []*models.APIKey
	if err := cursor.All(ctx, &keys); err != nil {
		return nil, fmt.Errorf("failed to decode api keys: %w", err)
	}

	return keys, nil
}

// AddAPIKey stores a new key for the user. The first key a user adds
// becomes their active key.
func (s *Store) AddAPIKey(ctx context.Context, telegramID int64, key, name string) error {
	existing, err := s.apiKeys.CountDocuments(ctx, bson.M{"userId": telegramID})
	if err != nil {
		return fmt.Errorf("failed to count api keys: %w", err)
	}

	doc := models.APIKey{
		ID:       primitive.NewObjectID().Hex(),
		UserID:   telegramID,
		Key:      key,
		Name:     name,
		IsActive: existing == 0,
		AddedAt:  time.Now().UTC(),
	}

	if _, err := s.apiKeys.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return userdb.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert api key: %w", err)
	}

	return nil
}

// DeleteAPIKey removes a key by its key material.
func (s *Store) DeleteAPIKey(ctx context.Context, telegramID int64, key string) error {
	result, err := s.apiKeys.DeleteOne(ctx, bson.M{"userId": telegramID, "key": key})
	if err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	if result.DeletedCount == 0 {
		return userdb.ErrNotFound
	}
	return nil
}

// RenameAPIKey changes a key's display name.
func (s *Store) RenameAPIKey(ctx context.Context, telegramID int64, key, name string) error {
	result, err := s.apiKeys.UpdateOne(ctx,
		bson.M{"userId": telegramID, "key": key},
		bson.M{"$set": bson.M{"name": name}},
	)
	if err != nil {
		return fmt.Errorf("failed to rename api key: %w", err)
	}
	if result.MatchedCount == 0 {
		return userdb.ErrNotFound
	}
	return nil
}

// SetActiveAPIKey marks the given key active. Any previously active key is
// deactivated first, so exactly one key is active after the call.
func (s *Store) SetActiveAPIKey(ctx context.Context, telegramID int64, key string) error {
	count, err := s.apiKeys.CountDocuments(ctx, bson.M{"userId": telegramID, "key": key})
	if err != nil {
		return fmt.Errorf("failed to look up api key: %w", err)
	}
	if count == 0 {
		return userdb.ErrNotFound
	}

	if _, err := s.apiKeys.UpdateMany(ctx,
		bson.M{"userId": telegramID, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false}},
	); err != nil {
		return fmt.Errorf("failed to deactivate api keys: %w", err)
	}

	if _, err := s.apiKeys.UpdateOne(ctx,
		bson.M{"userId": telegramID, "key": key},
		bson.M{"$set": bson.M{"isActive": true}},
	); err != nil {
		return fmt.Errorf("failed to activate api key: %w", err)
	}

	return nil
}

// GetActiveAPIKey returns the user's active key, or nil when none is
// designated.
func (s *Store) GetActiveAPIKey(ctx context.Context, telegramID int64) (*models.APIKey, error) {
	var apiKey models.APIKey
	err := s.apiKeys.FindOne(ctx, bson.M{"userId": telegramID, "isActive": true}).Decode(&apiKey)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active api key: %w", err)
	}
	return &apiKey, nil
}

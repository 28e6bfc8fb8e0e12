package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
)

// GetUser retrieves a user by Telegram ID.
func (s *Store) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": telegramID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpsertUser creates the user on first contact, refreshes LastSeenAt
// otherwise.
func (s *Store) UpsertUser(ctx context.Context, telegramID int64) (*models.User, error) {
	now := time.Now().UTC()

	update := bson.M{
		"$set":         bson.M{"lastSeenAt": now},
		"$setOnInsert": bson.M{"isAdmin": false, "isBanned": false, "isDeleted": false, "createdAt": now},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": telegramID}, update, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

// SetBanned sets or clears the banned flag.
func (s *Store) SetBanned(ctx context.Context, telegramID int64, banned bool) error {
	result, err := s.users.UpdateOne(ctx,
		bson.M{"_id": telegramID},
		bson.M{"$set": bson.M{"isBanned": banned}},
	)
	if err != nil {
		return fmt.Errorf("failed to update banned flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return userdb.ErrNotFound
	}
	return nil
}

// SetDeleted sets the deleted flag.
func (s *Store) SetDeleted(ctx context.Context, telegramID int64) error {
	result, err := s.users.UpdateOne(ctx,
		bson.M{"_id": telegramID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to update deleted flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return userdb.ErrNotFound
	}
	return nil
}

// IsAdmin reports whether the user has the admin role.
func (s *Store) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	user, err := s.GetUser(ctx, telegramID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.IsAdmin, nil
}

// ListUsers returns all users ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// EnsureIndexes creates the indexes the store relies on: a unique
// (userId, key) pair so the same key material cannot be stored twice for
// one user, and a userId index for key listings.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.apiKeys.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create api key indexes: %w", err)
	}
	return nil
}

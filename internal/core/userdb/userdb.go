// Package userdb defines the user and API-key store interface.
package userdb

import (
	"context"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
)

// Type represents the type of user store backend.
type Type string

const (
	// TypeMongoDB represents a MongoDB-backed store.
	TypeMongoDB Type = "mongodb"
)

// Store provides access to users and their API keys. Reads and writes are
// individually atomic; no operation here spans a multi-step transaction.
type Store interface {
	// GetUser retrieves a user by Telegram ID. Returns nil when absent.
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)

	// UpsertUser creates the user on first contact and refreshes
	// LastSeenAt on every later one. Ban/deleted/admin flags are left
	// untouched for existing users.
	UpsertUser(ctx context.Context, telegramID int64) (*models.User, error)

	// SetBanned sets or clears the banned flag.
	SetBanned(ctx context.Context, telegramID int64, banned bool) error

	// SetDeleted sets the deleted flag.
	SetDeleted(ctx context.Context, telegramID int64) error

	// IsAdmin reports whether the user has the admin role. Absent users
	// are not admins.
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)

	// ListUsers returns all users ordered by creation time.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// ListAPIKeys returns the user's keys ordered by AddedAt.
	ListAPIKeys(ctx context.Context, telegramID int64) ([]*models.APIKey, error)

	// AddAPIKey stores a new key. Adding key material that the user
	// already has returns ErrDuplicateKey.
	AddAPIKey(ctx context.Context, telegramID int64, key, name string) error

	// DeleteAPIKey removes a key by its key material.
	DeleteAPIKey(ctx context.Context, telegramID int64, key string) error

	// RenameAPIKey changes a key's display name.
	RenameAPIKey(ctx context.Context, telegramID int64, key, name string) error

	// SetActiveAPIKey marks the given key active. Exactly one of the
	// user's keys is active after the call: any previously active key is
	// deactivated first.
	SetActiveAPIKey(ctx context.Context, telegramID int64, key string) error

	// GetActiveAPIKey returns the user's active key, or nil when none is
	// designated.
	GetActiveAPIKey(ctx context.Context, telegramID int64) (*models.APIKey, error)

	// EnsureIndexes creates the indexes the store relies on.
	EnsureIndexes(ctx context.Context) error

	// Ping checks if the store connection is alive.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close(ctx context.Context) error
}

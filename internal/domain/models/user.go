// Package models contains domain models for the sandbox bot.
package models

import "time"

// User represents a bot user identified by their Telegram ID.
type User struct {
	TelegramID int64     `bson:"_id" json:"telegramId"`
	IsAdmin    bool      `bson:"isAdmin" json:"isAdmin"`
	IsBanned   bool      `bson:"isBanned" json:"isBanned"`
	IsDeleted  bool      `bson:"isDeleted" json:"isDeleted"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	LastSeenAt time.Time `bson:"lastSeenAt" json:"lastSeenAt"`
}

// APIKey is a stored sandbox credential belonging to a user. At most one
// key per user is active; the active key is used for all upstream calls.
type APIKey struct {
	ID       string    `bson:"_id,omitempty" json:"id"`
	UserID   int64     `bson:"userId" json:"userId"`
	Key      string    `bson:"key" json:"key"`
	Name     string    `bson:"name" json:"name"`
	IsActive bool      `bson:"isActive" json:"isActive"`
	AddedAt  time.Time `bson:"addedAt" json:"addedAt"`
}

// Preview returns a masked form of the key material suitable for menus:
// the first and last six characters with an ellipsis between them.
func (k APIKey) Preview() string {
	if len(k.Key) <= 12 {
		return k.Key
	}
	return k.Key[:6] + "..." + k.Key[len(k.Key)-6:]
}

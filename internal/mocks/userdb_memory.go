package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
)

// MemoryStore is an in-memory userdb.Store for tests. It upholds the
// same contract as the MongoDB store, including the single-active-key
// guarantee and sentinel errors.
type MemoryStore struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	keys   map[int64][]*models.APIKey
	nextID int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]*models.User),
		keys:  make(map[int64][]*models.APIKey),
	}
}

// GetUser retrieves a user by Telegram ID. Returns nil when absent.
func (s *MemoryStore) GetUser(_ context.Context, telegramID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// UpsertUser creates the user on first contact and refreshes LastSeenAt.
func (s *MemoryStore) UpsertUser(_ context.Context, telegramID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		u = &models.User{TelegramID: telegramID, CreatedAt: time.Now().UTC()}
		s.users[telegramID] = u
	}
	u.LastSeenAt = time.Now().UTC()
	copied := *u
	return &copied, nil
}

// SetBanned sets or clears the banned flag.
func (s *MemoryStore) SetBanned(_ context.Context, telegramID int64, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return userdb.ErrNotFound
	}
	u.IsBanned = banned
	return nil
}

// SetDeleted sets the deleted flag.
func (s *MemoryStore) SetDeleted(_ context.Context, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	if !ok {
		return userdb.ErrNotFound
	}
	u.IsDeleted = true
	return nil
}

// SetAdmin grants or revokes the admin role. The MongoDB store manages
// this out of band; tests need a direct hook.
func (s *MemoryStore) SetAdmin(telegramID int64, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[telegramID]; ok {
		u.IsAdmin = admin
	}
}

// IsAdmin reports whether the user has the admin role.
func (s *MemoryStore) IsAdmin(_ context.Context, telegramID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[telegramID]
	return ok && u.IsAdmin, nil
}

// ListUsers returns all users ordered by creation time.
func (s *MemoryStore) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListAPIKeys returns the user's keys ordered by AddedAt.
func (s *MemoryStore) ListAPIKeys(_ context.Context, telegramID int64) ([]*models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.keys[telegramID]
	out := make([]*models.APIKey, 0, len(keys))
	for _, k := range keys {
		copied := *k
		out = append(out, &copied)
	}
	return out, nil
}

// AddAPIKey stores a new key. The first key a user adds becomes active.
func (s *MemoryStore) AddAPIKey(_ context.Context, telegramID int64, key, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.keys[telegramID] {
		if k.Key == key {
			return userdb.ErrDuplicateKey
		}
	}
	s.nextID++
	s.keys[telegramID] = append(s.keys[telegramID], &models.APIKey{
		ID:       strconv.Itoa(s.nextID),
		UserID:   telegramID,
		Key:      key,
		Name:     name,
		IsActive: len(s.keys[telegramID]) == 0,
		AddedAt:  time.Now().UTC(),
	})
	return nil
}

// DeleteAPIKey removes a key by its key material.
func (s *MemoryStore) DeleteAPIKey(_ context.Context, telegramID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.keys[telegramID]
	for i, k := range keys {
		if k.Key == key {
			s.keys[telegramID] = append(keys[:i], keys[i+1:]...)
			return nil
		}
	}
	return userdb.ErrNotFound
}

// RenameAPIKey changes a key's display name.
func (s *MemoryStore) RenameAPIKey(_ context.Context, telegramID int64, key, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.keys[telegramID] {
		if k.Key == key {
			k.Name = name
			return nil
		}
	}
	return userdb.ErrNotFound
}

// SetActiveAPIKey marks the given key active and every other key
// inactive.
func (s *MemoryStore) SetActiveAPIKey(_ context.Context, telegramID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var target *models.APIKey
	for _, k := range s.keys[telegramID] {
		if k.Key == key {
			target = k
			break
		}
	}
	if target == nil {
		return userdb.ErrNotFound
	}
	for _, k := range s.keys[telegramID] {
		k.IsActive = false
	}
	target.IsActive = true
	return nil
}

// GetActiveAPIKey returns the user's active key, or nil when none is
// designated.
func (s *MemoryStore) GetActiveAPIKey(_ context.Context, telegramID int64) (*models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.keys[telegramID] {
		if k.IsActive {
			copied := *k
			return &copied, nil
		}
	}
	return nil, nil
}

// EnsureIndexes is a no-op for the in-memory store.
func (s *MemoryStore) EnsureIndexes(_ context.Context) error { return nil }

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(_ context.Context) error { return nil }

// Package session manages per-chat conversation state: the pending-input
// slot, the history paging offset, and the cached current report.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/cache"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/encryption"
)

// DefaultSessionTTL is the default TTL for session state (30 minutes).
// Cached reports carry sandbox content and key-adjacent data, so sessions
// are not kept around indefinitely.
const DefaultSessionTTL = 30 * time.Minute

// Service provides per-chat session state.
type Service interface {
	// Get retrieves a chat's session state, or nil when none exists.
	// Undecryptable or corrupt entries are dropped and reported as
	// absent.
	Get(ctx context.Context, chatID int64) (*models.SessionState, error)

	// Set stores a chat's session state with the configured TTL.
	Set(ctx context.Context, state *models.SessionState) error

	// SetPending records that the next plain-text message from this chat
	// is input for the given tag. A pending tag that is already set is
	// overwritten, not queued.
	SetPending(ctx context.Context, chatID int64, pending models.PendingInput) error

	// SetPendingRename expects a new name for the given key as the next
	// input.
	SetPendingRename(ctx context.Context, chatID int64, keyID string) error

	// SetPendingAdminAction expects a target user ID for the given
	// moderation action as the next input.
	SetPendingAdminAction(ctx context.Context, chatID int64, action string) error

	// ConsumePending atomically reads and clears the pending tag. The
	// clear is persisted before the caller acts on the tag, so a failing
	// handler can never leave a stale expectation. Returns PendingNone
	// when no tag is set. The returned state reflects the pre-clear
	// values of RenameKeyID and AdminAction.
	ConsumePending(ctx context.Context, chatID int64) (models.PendingInput, *models.SessionState, error)

	// SetReport caches the last fetched report for the chat.
	SetReport(ctx context.Context, chatID int64, report *models.Report) error

	// GetReport returns the chat's cached report, or nil.
	GetReport(ctx context.Context, chatID int64) (*models.Report, error)

	// SetHistorySkip stores the chat's history paging offset.
	SetHistorySkip(ctx context.Context, chatID int64, skip int) error

	// Delete removes a chat's session state.
	Delete(ctx context.Context, chatID int64) error
}

// Config holds the configuration for the session service.
type Config struct {
	CacheClient cache.Client
	Encryptor   encryption.Encryptor
	TTL         time.Duration
}

// service implements the Service interface.
type service struct {
	cacheClient cache.Client
	encryptor   encryption.Encryptor
	ttl         time.Duration
}

// NewService creates a new session service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.CacheClient == nil {
		return nil, fmt.Errorf("cache client is required")
	}
	if cfg.Encryptor == nil {
		return nil, fmt.Errorf("encryptor is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	return &service{
		cacheClient: cfg.CacheClient,
		encryptor:   cfg.Encryptor,
		ttl:         ttl,
	}, nil
}

// Get retrieves a chat's session state.
func (s *service) Get(ctx context.Context, chatID int64) (*models.SessionState, error) {
	key := models.SessionKey(chatID)

	encrypted, err := s.cacheClient.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}
	if encrypted == nil {
		return nil, nil
	}

	// Key changed or payload corrupted: drop the entry and start fresh.
	decrypted, err := s.encryptor.Decrypt(string(encrypted))
	if err != nil {
		_, _ = s.cacheClient.Delete(ctx, key)
		return nil, nil
	}

	var state models.SessionState
	if err := json.Unmarshal(decrypted, &state); err != nil {
		_, _ = s.cacheClient.Delete(ctx, key)
		return nil, nil
	}

	return &state, nil
}

// Set stores a chat's session state.
func (s *service) Set(ctx context.Context, state *models.SessionState) error {
	if state == nil {
		return fmt.Errorf("session state is required")
	}

	state.UpdatedAt = time.Now().UTC()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = state.UpdatedAt
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	encrypted, err := s.encryptor.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	key := models.SessionKey(state.ChatID)
	if err := s.cacheClient.Set(ctx, key, []byte(encrypted), s.ttl); err != nil {
		return fmt.Errorf("failed to store session in cache: %w", err)
	}

	return nil
}

// SetPending records the expected next input for a chat.
func (s *service) SetPending(ctx context.Context, chatID int64, pending models.PendingInput) error {
	state, err := s.load(ctx, chatID)
	if err != nil {
		return err
	}

	state.Pending = pending
	if pending != models.PendingRenameAPIKey {
		state.RenameKeyID = ""
	}
	if pending != models.PendingAdminUserAction {
		state.AdminAction = ""
	}

	return s.Set(ctx, state)
}

// ConsumePending reads and clears the pending tag in one call.
func (s *service) ConsumePending(ctx context.Context, chatID int64) (models.PendingInput, *models.SessionState, error) {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		return models.PendingNone, nil, err
	}
	if state == nil {
		return models.PendingNone, &models.SessionState{ChatID: chatID}, nil
	}

	pending := state.Pending
	if pending == models.PendingNone {
		return models.PendingNone, state, nil
	}

	consumed := *state
	state.Pending = models.PendingNone
	state.RenameKeyID = ""
	state.AdminAction = ""
	if err := s.Set(ctx, state); err != nil {
		return models.PendingNone, nil, err
	}

	return pending, &consumed, nil
}

// SetReport caches the last fetched report for the chat.
func (s *service) SetReport(ctx context.Context, chatID int64, report *models.Report) error {
	state, err := s.load(ctx, chatID)
	if err != nil {
		return err
	}
	state.Report = report
	return s.Set(ctx, state)
}

// GetReport returns the chat's cached report.
func (s *service) GetReport(ctx context.Context, chatID int64) (*models.Report, error) {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}
	return state.Report, nil
}

// SetHistorySkip stores the chat's history paging offset.
func (s *service) SetHistorySkip(ctx context.Context, chatID int64, skip int) error {
	state, err := s.load(ctx, chatID)
	if err != nil {
		return err
	}
	state.HistorySkip = skip
	return s.Set(ctx, state)
}

// Delete removes a chat's session state.
func (s *service) Delete(ctx context.Context, chatID int64) error {
	if _, err := s.cacheClient.Delete(ctx, models.SessionKey(chatID)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SetPendingRename expects a new name for the given key as the next
// input.
func (s *service) SetPendingRename(ctx context.Context, chatID int64, keyID string) error {
	state, err := s.load(ctx, chatID)
	if err != nil {
		return err
	}
	state.Pending = models.PendingRenameAPIKey
	state.RenameKeyID = keyID
	state.AdminAction = ""
	return s.Set(ctx, state)
}

// SetPendingAdminAction expects a target user ID for the given moderation
// action as the next input.
func (s *service) SetPendingAdminAction(ctx context.Context, chatID int64, action string) error {
	state, err := s.load(ctx, chatID)
	if err != nil {
		return err
	}
	state.Pending = models.PendingAdminUserAction
	state.AdminAction = action
	state.RenameKeyID = ""
	return s.Set(ctx, state)
}

// load returns the chat's state, creating an empty one when absent.
func (s *service) load(ctx context.Context, chatID int64) (*models.SessionState, error) {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &models.SessionState{ChatID: chatID}
	}
	return state, nil
}

// Package access gates every bot interaction behind the account and
// group-membership checks.
package access

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/errors"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

// Service decides whether a user may run sandbox operations.
type Service interface {
	// Check runs the gate for the user. On success it returns the
	// user's active API key. On denial it returns the error for the
	// FIRST failing check, in the fixed order: account exists, not
	// banned, not deleted, active key designated, member of every
	// required group.
	Check(ctx context.Context, telegramID int64) (*models.APIKey, error)

	// RequireAdmin verifies the user holds the admin role.
	RequireAdmin(ctx context.Context, telegramID int64) error

	// RequiredGroups returns the chat IDs membership is checked against.
	RequiredGroups() []int64
}

type service struct {
	store    userdb.Store
	telegram telegram.API
	groups   []int64
}

// NewService creates the access gate. groups may be empty, in which case
// the membership check always passes.
func NewService(store userdb.Store, tg telegram.API, groups []int64) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if tg == nil {
		return nil, fmt.Errorf("telegram client is required")
	}
	return &service{store: store, telegram: tg, groups: groups}, nil
}

func (s *service) Check(ctx context.Context, telegramID int64) (*models.APIKey, error) {
	user, err := s.store.GetUser(ctx, telegramID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAccountInvalidError("account not registered")
	}
	if user.IsBanned {
		return nil, errors.NewAccountInvalidError("account is banned")
	}
	if user.IsDeleted {
		return nil, errors.NewAccountInvalidError("account is deleted")
	}

	key, err := s.store.GetActiveAPIKey(ctx, telegramID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load active API key", err)
	}
	if key == nil {
		return nil, errors.NewCredentialMissingError("no active API key configured")
	}

	for _, groupID := range s.groups {
		member, err := s.telegram.GetChatMember(ctx, groupID, telegramID)
		if err != nil {
			// A lookup failure counts as non-membership; the gate
			// must not open on upstream errors.
			log.Warn().Err(err).
				Int64("group_id", groupID).
				Int64("user_id", telegramID).
				Msg("Group membership lookup failed")
			return nil, errors.NewGroupMembershipError(fmt.Sprintf("membership in group %d could not be verified", groupID))
		}
		if !member.IsMember() {
			return nil, errors.NewGroupMembershipError(fmt.Sprintf("not a member of required group %d", groupID))
		}
	}

	return key, nil
}

func (s *service) RequireAdmin(ctx context.Context, telegramID int64) error {
	admin, err := s.store.IsAdmin(ctx, telegramID)
	if err != nil {
		return errors.NewInternalError("failed to check admin role", err)
	}
	if !admin {
		return errors.NewAccountInvalidError("admin role required")
	}
	return nil
}

func (s *service) RequiredGroups() []int64 { return s.groups }

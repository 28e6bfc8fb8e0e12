package bot

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/errors"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/markdown"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/menu"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/render"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

func (b *Bot) showAdminPanel(ctx context.Context, cb *telegram.CallbackQuery) {
	if err := b.gate.RequireAdmin(ctx, cb.From.ID); err != nil {
		b.answer(ctx, cb.ID, "Admin role required")
		return
	}
	b.answer(ctx, cb.ID, "")
	b.editScreen(ctx, cb.Message.Chat.ID, cb.Message.MessageID, "Admin panel:", menu.ScreenAdminPanel, menu.Context{})
}

func (b *Bot) showUserList(ctx context.Context, cb *telegram.CallbackQuery) {
	if err := b.gate.RequireAdmin(ctx, cb.From.ID); err != nil {
		b.answer(ctx, cb.ID, "Admin role required")
		return
	}

	users, err := b.store.ListUsers(ctx)
	if err != nil {
		b.answer(ctx, cb.ID, "")
		b.sendError(ctx, cb.Message.Chat.ID, errors.NewInternalError("failed to list users", err))
		return
	}

	text := "No registered users\\."
	if len(users) > 0 {
		lines := make([]string, 0, len(users))
		for _, u := range users {
			lines = append(lines, markdown.Escape(render.UserLine(u)))
		}
		text = "Registered users:\n" + strings.Join(lines, "\n")
	}

	b.answer(ctx, cb.ID, "")
	b.editScreen(ctx, cb.Message.Chat.ID, cb.Message.MessageID, text, menu.ScreenManageUsers, menu.Context{})
}

// showAccessRights reports the calling user's standing in each required
// group, with invite links where the group exposes one.
func (b *Bot) showAccessRights(ctx context.Context, cb *telegram.CallbackQuery) {
	b.answer(ctx, cb.ID, "")
	groups := b.groupStandings(ctx, cb.From.ID)

	text := "No group membership is required\\."
	if len(groups) > 0 {
		text = "Required groups and your standing:"
	}
	b.editScreen(ctx, cb.Message.Chat.ID, cb.Message.MessageID, text, menu.ScreenAccessRights, menu.Context{Groups: groups})
}

// showBotGroups reports the bot's own standing in each required group.
// The bot must sit in every group to be able to verify memberships.
func (b *Bot) showBotGroups(ctx context.Context, cb *telegram.CallbackQuery) {
	if err := b.gate.RequireAdmin(ctx, cb.From.ID); err != nil {
		b.answer(ctx, cb.ID, "Admin role required")
		return
	}

	me, err := b.telegram.GetMe(ctx)
	if err != nil {
		b.answer(ctx, cb.ID, "")
		b.sendError(ctx, cb.Message.Chat.ID, errors.NewInternalError("failed to resolve bot account", err))
		return
	}

	b.answer(ctx, cb.ID, "")
	groups := b.groupStandings(ctx, me.ID)

	text := "No group membership is required\\."
	if len(groups) > 0 {
		text = "Bot standing in required groups:"
	}
	b.editScreen(ctx, cb.Message.Chat.ID, cb.Message.MessageID, text, menu.ScreenAccessRights, menu.Context{Groups: groups})
}

// groupStandings resolves membership and chat metadata for every
// required group. Lookup failures degrade to non-membership rows.
func (b *Bot) groupStandings(ctx context.Context, userID int64) []menu.Group {
	required := b.gate.RequiredGroups()
	groups := make([]menu.Group, 0, len(required))
	for _, groupID := range required {
		group := menu.Group{ID: groupID}

		if chat, err := b.telegram.GetChat(ctx, groupID); err == nil {
			group.Title = chat.Title
			group.InviteLink = chat.InviteLink
			if group.InviteLink == "" && chat.Username != "" {
				group.InviteLink = "https://t.me/" + chat.Username
			}
		} else {
			log.Warn().Err(err).Int64("group_id", groupID).Msg("Group metadata lookup failed")
		}

		if member, err := b.telegram.GetChatMember(ctx, groupID, userID); err == nil {
			group.Member = member.IsMember()
		}

		groups = append(groups, group)
	}
	return groups
}

// answer acknowledges a callback query; Telegram keeps the button in a
// loading state until this is sent.
func (b *Bot) answer(ctx context.Context, callbackID, notice string) {
	if err := b.telegram.AnswerCallbackQuery(ctx, callbackID, notice); err != nil {
		log.Warn().Err(err).Msg("Failed to answer callback query")
	}
}

package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/errors"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/markdown"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/menu"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/render"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

// handleCallback routes a button press. Exact matches are tried before
// prefixes, so "delete_api_key" never falls into the "delete_" branch.
func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if cb.Message == nil {
		b.answer(ctx, cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	userID := cb.From.ID

	switch cb.Data {
	case menu.CallbackMainMenu:
		b.answer(ctx, cb.ID, "")
		b.editScreen(ctx, chatID, messageID, "Main menu:", menu.ScreenMain, menu.Context{})

	case menu.CallbackSandboxAPI:
		b.answer(ctx, cb.ID, "")
		b.editScreen(ctx, chatID, messageID, "Sandbox actions:", menu.ScreenSandbox, menu.Context{})

	case menu.CallbackSettings:
		b.answer(ctx, cb.ID, "")
		admin, err := b.store.IsAdmin(ctx, userID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Admin lookup failed")
		}
		b.editScreen(ctx, chatID, messageID, "Settings:", menu.ScreenSettings, menu.Context{IsAdmin: admin})

	case menu.CallbackManageAPIKey:
		b.answer(ctx, cb.ID, "")
		b.showKeyList(ctx, userID, chatID, messageID)

	case menu.CallbackRunURLAnalysis:
		b.promptInput(ctx, cb, models.PendingAnalysisURL, "Send the URL to analyze\\.")

	case menu.CallbackRunFileAnalysis:
		b.answer(ctx, cb.ID, "")
		b.sendScreen(ctx, chatID, "Send the file to analyze as a document\\.", menu.ScreenSandbox, menu.Context{})

	case menu.CallbackGetReportByUUID:
		b.promptInput(ctx, cb, models.PendingReportUUID, "Send the task UUID\\.")

	case menu.CallbackShowHistory:
		b.answer(ctx, cb.ID, "")
		b.showHistory(ctx, userID, chatID, messageID, 0)

	case menu.CallbackShowHistoryPrevious:
		b.answer(ctx, cb.ID, "")
		b.pageHistory(ctx, userID, chatID, messageID, -historyPageSize)

	case menu.CallbackShowHistoryNext:
		b.answer(ctx, cb.ID, "")
		b.pageHistory(ctx, userID, chatID, messageID, historyPageSize)

	case menu.CallbackShowAPILimits:
		b.showLimits(ctx, cb)

	case menu.CallbackAddAPIKey:
		b.promptInput(ctx, cb, models.PendingNewAPIKey,
			"Send the API key, optionally followed by a name\\.")

	case menu.CallbackDeleteAPIKey:
		b.answer(ctx, cb.ID, "")
		b.showKeyPicker(ctx, userID, chatID, messageID, menu.KeyActionDelete, "Choose a key to delete:")

	case menu.CallbackRenameAPIKey:
		b.answer(ctx, cb.ID, "")
		b.showKeyPicker(ctx, userID, chatID, messageID, menu.KeyActionRename, "Choose a key to rename:")

	case menu.CallbackActivateAPIKey:
		b.answer(ctx, cb.ID, "")
		b.showKeyPicker(ctx, userID, chatID, messageID, menu.KeyActionActivate, "Choose a key to activate:")

	case menu.CallbackShowRecordedVideo:
		b.sendRecordedVideo(ctx, cb)

	case menu.CallbackShowCapturedScreenshots:
		b.sendCapturedScreenshots(ctx, cb)

	case menu.CallbackAdminPanel:
		b.showAdminPanel(ctx, cb)

	case menu.CallbackManageUsers:
		b.showUserList(ctx, cb)

	case menu.CallbackBanUser:
		b.promptAdminAction(ctx, cb, models.AdminActionBan, "Send the Telegram ID of the user to ban\\.")

	case menu.CallbackUnbanUser:
		b.promptAdminAction(ctx, cb, models.AdminActionUnban, "Send the Telegram ID of the user to unban\\.")

	case menu.CallbackDeleteUser:
		b.promptAdminAction(ctx, cb, models.AdminActionDelete, "Send the Telegram ID of the user to delete\\.")

	case menu.CallbackCheckAccessRights:
		b.showAccessRights(ctx, cb)

	case menu.CallbackCheckBotGroups:
		b.showBotGroups(ctx, cb)

	default:
		b.handlePrefixCallback(ctx, cb)
	}
}

func (b *Bot) handlePrefixCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	switch {
	case strings.HasPrefix(cb.Data, menu.PrefixDeleteKey):
		b.deleteKey(ctx, cb, strings.TrimPrefix(cb.Data, menu.PrefixDeleteKey))

	case strings.HasPrefix(cb.Data, menu.PrefixRenameKey):
		key := strings.TrimPrefix(cb.Data, menu.PrefixRenameKey)
		if err := b.sessions.SetPendingRename(ctx, chatID, key); err != nil {
			b.answer(ctx, cb.ID, "Session error, try again")
			return
		}
		b.answer(ctx, cb.ID, "")
		b.editScreen(ctx, chatID, messageID, "Send the new name for the key\\.", menu.ScreenManageKeys, menu.Context{})

	case strings.HasPrefix(cb.Data, menu.PrefixActivateKey):
		b.activateKey(ctx, cb, strings.TrimPrefix(cb.Data, menu.PrefixActivateKey))

	case strings.HasPrefix(cb.Data, menu.PrefixGroupInfo):
		b.showGroupInfo(ctx, cb, strings.TrimPrefix(cb.Data, menu.PrefixGroupInfo))

	default:
		// Stale or unknown button: land the chat back on the main menu.
		b.answer(ctx, cb.ID, "")
		b.editScreen(ctx, chatID, messageID, "Main menu:", menu.ScreenMain, menu.Context{})
	}
}

// promptInput arms the pending-input slot and asks for the input.
func (b *Bot) promptInput(ctx context.Context, cb *telegram.CallbackQuery, pending models.PendingInput, prompt string) {
	chatID := cb.Message.Chat.ID
	if err := b.sessions.SetPending(ctx, chatID, pending); err != nil {
		b.answer(ctx, cb.ID, "Session error, try again")
		return
	}
	b.answer(ctx, cb.ID, "")
	b.editScreen(ctx, chatID, cb.Message.MessageID, prompt, menu.ScreenSandbox, menu.Context{})
}

func (b *Bot) promptAdminAction(ctx context.Context, cb *telegram.CallbackQuery, action, prompt string) {
	chatID := cb.Message.Chat.ID
	if err := b.gate.RequireAdmin(ctx, cb.From.ID); err != nil {
		b.answer(ctx, cb.ID, "Admin role required")
		return
	}
	if err := b.sessions.SetPendingAdminAction(ctx, chatID, action); err != nil {
		b.answer(ctx, cb.ID, "Session error, try again")
		return
	}
	b.answer(ctx, cb.ID, "")
	b.editScreen(ctx, chatID, cb.Message.MessageID, prompt, menu.ScreenManageUsers, menu.Context{})
}

// showKeyList renders the user's stored keys with the manage-keys menu.
func (b *Bot) showKeyList(ctx context.Context, userID, chatID, messageID int64) {
	keys, err := b.store.ListAPIKeys(ctx, userID)
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to list API keys", err))
		return
	}

	text := "You have no API keys yet\\."
	if len(keys) > 0 {
		var lines []string
		for _, key := range keys {
			lines = append(lines, markdown.Escape(render.APIKeyLine(key)))
		}
		text = "Your API keys:\n" + strings.Join(lines, "\n")
	}

	b.editScreen(ctx, chatID, messageID, text, menu.ScreenManageKeys, menu.Context{})
}

// showKeyPicker renders one button per key for the given action.
func (b *Bot) showKeyPicker(ctx context.Context, userID, chatID, messageID int64, action menu.KeyAction, prompt string) {
	keys, err := b.store.ListAPIKeys(ctx, userID)
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to list API keys", err))
		return
	}
	if len(keys) == 0 {
		b.editScreen(ctx, chatID, messageID, "You have no API keys yet\\.", menu.ScreenManageKeys, menu.Context{})
		return
	}
	b.editScreen(ctx, chatID, messageID, markdown.Escape(prompt),
		menu.ScreenManageKeys, menu.Context{Keys: keys, KeyAction: action})
}

func (b *Bot) deleteKey(ctx context.Context, cb *telegram.CallbackQuery, key string) {
	err := b.store.DeleteAPIKey(ctx, cb.From.ID, key)
	if err == userdb.ErrNotFound {
		b.answer(ctx, cb.ID, "Key not found")
		return
	}
	if err != nil {
		b.answer(ctx, cb.ID, "Failed to delete key")
		return
	}
	b.answer(ctx, cb.ID, "Key deleted")
	b.showKeyList(ctx, cb.From.ID, cb.Message.Chat.ID, cb.Message.MessageID)
}

func (b *Bot) activateKey(ctx context.Context, cb *telegram.CallbackQuery, key string) {
	err := b.store.SetActiveAPIKey(ctx, cb.From.ID, key)
	if err == userdb.ErrNotFound {
		b.answer(ctx, cb.ID, "Key not found")
		return
	}
	if err != nil {
		b.answer(ctx, cb.ID, "Failed to activate key")
		return
	}
	b.answer(ctx, cb.ID, "Key activated")
	b.showKeyList(ctx, cb.From.ID, cb.Message.Chat.ID, cb.Message.MessageID)
}

func (b *Bot) showLimits(ctx context.Context, cb *telegram.CallbackQuery) {
	key, err := b.gate.Check(ctx, cb.From.ID)
	if err != nil {
		b.answer(ctx, cb.ID, "")
		b.sendError(ctx, cb.Message.Chat.ID, err)
		return
	}

	limits, err := b.sandbox.GetLimits(ctx, key.Key)
	if err != nil {
		b.answer(ctx, cb.ID, "")
		b.sendError(ctx, cb.Message.Chat.ID, err)
		return
	}

	b.answer(ctx, cb.ID, "")
	b.editScreen(ctx, cb.Message.Chat.ID, cb.Message.MessageID, markdown.Escape(limits), menu.ScreenSandbox, menu.Context{})
}

func (b *Bot) showGroupInfo(ctx context.Context, cb *telegram.CallbackQuery, rawID string) {
	groupID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.answer(ctx, cb.ID, "Unknown group")
		return
	}
	chat, err := b.telegram.GetChat(ctx, groupID)
	if err != nil {
		b.answer(ctx, cb.ID, "Group info unavailable")
		return
	}
	title := chat.Title
	if title == "" {
		title = rawID
	}
	b.answer(ctx, cb.ID, "Required group: "+title)
}

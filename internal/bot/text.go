package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/errors"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/models"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/markdown"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/menu"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/render"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

// handleText routes a plain-text message through the pending-input slot.
// The slot is cleared before any handler runs, so every message consumes
// at most one expectation.
func (b *Bot) handleText(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	pending, state, err := b.sessions.ConsumePending(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to read session", err))
		return
	}

	text := strings.TrimSpace(msg.Text)

	switch pending {
	case models.PendingReportUUID:
		b.handleReportUUID(ctx, msg.From.ID, chatID, text)
	case models.PendingAnalysisURL:
		b.handleAnalysisURL(ctx, msg.From.ID, chatID, text)
	case models.PendingNewAPIKey:
		b.handleNewAPIKey(ctx, msg.From.ID, chatID, text)
	case models.PendingRenameAPIKey:
		b.handleRenameAPIKey(ctx, msg.From.ID, chatID, state.RenameKeyID, text)
	case models.PendingAdminUserAction:
		b.handleAdminUserAction(ctx, msg.From.ID, chatID, state.AdminAction, text)
	default:
		b.sendScreen(ctx, chatID, "I was not expecting input\\. Choose an action:", menu.ScreenSandbox, menu.Context{})
	}
}

// handleReportUUID validates the UUID locally first. A malformed UUID
// never reaches the upstream API.
func (b *Bot) handleReportUUID(ctx context.Context, userID, chatID int64, text string) {
	if _, err := uuid.Parse(text); err != nil {
		b.sendScreen(ctx, chatID,
			"That does not look like a task UUID\\. Choose an action:",
			menu.ScreenSandbox, menu.Context{})
		return
	}

	key, err := b.gate.Check(ctx, userID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	report, err := b.sandbox.GetReport(ctx, key.Key, text)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	if err := b.sessions.SetReport(ctx, chatID, report); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to cache report")
	}

	b.sendScreen(ctx, chatID, render.Report(report), menu.ScreenReportDetail, menu.Context{Report: report})
}

func (b *Bot) handleAnalysisURL(ctx context.Context, userID, chatID int64, text string) {
	if text == "" {
		b.sendScreen(ctx, chatID, "Empty URL\\. Choose an action:", menu.ScreenSandbox, menu.Context{})
		return
	}

	key, err := b.gate.Check(ctx, userID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	taskID, err := b.sandbox.SubmitURL(ctx, key.Key, text)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.sendScreen(ctx, chatID,
		"Analysis started\\.\n🆔 `"+markdown.Escape(taskID)+"`\nFetch the report by UUID once it completes\\.",
		menu.ScreenSandbox, menu.Context{})
}

func (b *Bot) handleNewAPIKey(ctx context.Context, userID, chatID int64, text string) {
	key, name := splitKeyInput(text)
	if key == "" {
		b.sendScreen(ctx, chatID, "Empty API key\\. Choose an action:", menu.ScreenSandbox, menu.Context{})
		return
	}

	err := b.store.AddAPIKey(ctx, userID, key, name)
	if err == userdb.ErrDuplicateKey {
		b.sendScreen(ctx, chatID, "You already have this API key\\.", menu.ScreenManageKeys, menu.Context{})
		return
	}
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to store API key", err))
		return
	}

	b.sendScreen(ctx, chatID,
		"API key *"+markdown.Escape(name)+"* added\\.",
		menu.ScreenManageKeys, menu.Context{})
}

func (b *Bot) handleRenameAPIKey(ctx context.Context, userID, chatID int64, targetKey, text string) {
	if targetKey == "" {
		b.sendScreen(ctx, chatID, "No key selected for renaming\\.", menu.ScreenManageKeys, menu.Context{})
		return
	}

	name := normalizeKeyName(text)
	err := b.store.RenameAPIKey(ctx, userID, targetKey, name)
	if err == userdb.ErrNotFound {
		b.sendScreen(ctx, chatID, "That key no longer exists\\.", menu.ScreenManageKeys, menu.Context{})
		return
	}
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to rename API key", err))
		return
	}

	b.sendScreen(ctx, chatID,
		"Key renamed to *"+markdown.Escape(name)+"*\\.",
		menu.ScreenManageKeys, menu.Context{})
}

func (b *Bot) handleAdminUserAction(ctx context.Context, userID, chatID int64, action, text string) {
	if err := b.gate.RequireAdmin(ctx, userID); err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	targetID, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		b.sendScreen(ctx, chatID, "That is not a numeric user ID\\.", menu.ScreenManageUsers, menu.Context{})
		return
	}

	switch action {
	case models.AdminActionBan:
		err = b.store.SetBanned(ctx, targetID, true)
	case models.AdminActionUnban:
		err = b.store.SetBanned(ctx, targetID, false)
	case models.AdminActionDelete:
		err = b.store.SetDeleted(ctx, targetID)
	default:
		b.sendScreen(ctx, chatID, "Unknown moderation action\\.", menu.ScreenManageUsers, menu.Context{})
		return
	}

	if err == userdb.ErrNotFound {
		b.sendScreen(ctx, chatID, "No such user\\.", menu.ScreenManageUsers, menu.Context{})
		return
	}
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to update user", err))
		return
	}

	b.sendScreen(ctx, chatID,
		"Done: "+markdown.Escape(action)+" applied to `"+strconv.FormatInt(targetID, 10)+"`\\.",
		menu.ScreenManageUsers, menu.Context{})
}

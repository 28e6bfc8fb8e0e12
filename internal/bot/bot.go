// Package bot routes Telegram updates to the sandbox, key-management,
// and admin flows.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/userdb"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/errors"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/markdown"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/access"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/anyrun"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/menu"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/session"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

// historyPageSize is the fixed number of rows per history page.
const historyPageSize = 10

// Bot wires the conversation flows together. One instance serves all
// chats; per-chat state lives in the session service.
type Bot struct {
	store    userdb.Store
	sessions session.Service
	telegram telegram.API
	sandbox  anyrun.API
	gate     access.Service
}

// New creates the bot. All dependencies are required.
func New(store userdb.Store, sessions session.Service, tg telegram.API, sandbox anyrun.API, gate access.Service) (*Bot, error) {
	if store == nil || sessions == nil || tg == nil || sandbox == nil || gate == nil {
		return nil, fmt.Errorf("all bot dependencies are required")
	}
	return &Bot{
		store:    store,
		sessions: sessions,
		telegram: tg,
		sandbox:  sandbox,
		gate:     gate,
	}, nil
}

// HandleUpdate processes one inbound update. Errors are rendered to the
// user and never returned; a failing handler still leaves the chat on a
// valid menu.
func (b *Bot) HandleUpdate(ctx context.Context, update *telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message == nil || update.Message.From == nil:
		// Channel posts and service messages carry no sender.
	case update.Message.Document != nil:
		b.handleDocument(ctx, update.Message)
	case strings.HasPrefix(update.Message.Text, "/"):
		b.handleCommand(ctx, update.Message)
	case update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *telegram.Message) {
	command := strings.Fields(msg.Text)[0]
	// Commands in groups arrive as /start@BotName.
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}

	switch command {
	case "/start":
		if _, err := b.store.UpsertUser(ctx, msg.From.ID); err != nil {
			log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("Failed to upsert user")
			b.sendError(ctx, msg.Chat.ID, errors.NewInternalError("failed to register account", err))
			return
		}
		b.sendScreen(ctx, msg.Chat.ID, "Welcome\\! Choose an action:", menu.ScreenMain, menu.Context{})
	case "/menu":
		b.sendScreen(ctx, msg.Chat.ID, "Main menu:", menu.ScreenMain, menu.Context{})
	default:
		b.sendScreen(ctx, msg.Chat.ID, "Unknown command\\. Main menu:", menu.ScreenMain, menu.Context{})
	}
}

// sendScreen sends a new message carrying a menu keyboard.
func (b *Bot) sendScreen(ctx context.Context, chatID int64, text string, screen menu.Screen, vctx menu.Context) {
	_, err := b.telegram.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             telegram.ParseModeMarkdownV2,
		DisableWebPagePreview: true,
		ReplyMarkup:           menu.Build(screen, vctx),
	})
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send screen")
	}
}

// editScreen replaces a sent message with a new text and keyboard. Used
// by callback handlers so menu navigation edits in place.
func (b *Bot) editScreen(ctx context.Context, chatID, messageID int64, text string, screen menu.Screen, vctx menu.Context) {
	err := b.telegram.EditMessageText(ctx, telegram.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   telegram.ParseModeMarkdownV2,
		ReplyMarkup: menu.Build(screen, vctx),
	})
	if err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Edit failed, sending instead")
		b.sendScreen(ctx, chatID, text, screen, vctx)
	}
}

// sendError renders a failure as a user-visible message with a route
// back to the sandbox menu.
func (b *Bot) sendError(ctx context.Context, chatID int64, err error) {
	text := "Something went wrong. Please try again."
	if domainErr, ok := errors.GetDomainError(err); ok {
		text = domainErr.UserMessage()
	}
	b.sendScreen(ctx, chatID, markdown.Escape(text), menu.ScreenSandbox, menu.Context{})
}

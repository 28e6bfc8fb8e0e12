package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/domain/errors"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/markdown"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/menu"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/render"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

// screenshotAlbumSize is Telegram's media-group limit.
const screenshotAlbumSize = 10

// handleDocument submits an attached file for analysis.
func (b *Bot) handleDocument(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID

	key, err := b.gate.Check(ctx, msg.From.ID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	file, err := b.telegram.GetFile(ctx, msg.Document.FileID)
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to resolve attached file", err))
		return
	}

	content, err := b.telegram.DownloadFile(ctx, file.FilePath)
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to download attached file", err))
		return
	}
	defer content.Close()

	filename := msg.Document.FileName
	if filename == "" {
		filename = "sample.bin"
	}

	taskID, err := b.sandbox.SubmitFile(ctx, key.Key, filename, content)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.sendScreen(ctx, chatID,
		"Analysis started\\.\n🆔 `"+markdown.Escape(taskID)+"`\nFetch the report by UUID once it completes\\.",
		menu.ScreenSandbox, menu.Context{})
}

// showHistory fetches and renders one history page at the given skip.
func (b *Bot) showHistory(ctx context.Context, userID, chatID, messageID int64, skip int) {
	key, err := b.gate.Check(ctx, userID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	entries, err := b.sandbox.ListHistory(ctx, key.Key, historyPageSize, skip)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	if err := b.sessions.SetHistorySkip(ctx, chatID, skip); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to store history offset")
	}

	text := "No analyses on this page\\."
	if len(entries) > 0 {
		blocks := make([]string, 0, len(entries))
		for _, entry := range entries {
			blocks = append(blocks, render.HistoryEntry(entry))
		}
		header := fmt.Sprintf("Analysis history \\(%d–%d\\):\n\n", skip+1, skip+len(entries))
		text = header + strings.Join(blocks, "\n\n")
	}

	b.editScreen(ctx, chatID, messageID, text, menu.ScreenHistory, menu.Context{})
}

// pageHistory moves the chat's history offset by delta, flooring at
// zero. There is no upper bound; pages past the end just come back
// empty.
func (b *Bot) pageHistory(ctx context.Context, userID, chatID, messageID int64, delta int) {
	state, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.sendError(ctx, chatID, errors.NewInternalError("failed to read session", err))
		return
	}

	skip := delta
	if state != nil {
		skip = state.HistorySkip + delta
	}
	if skip < 0 {
		skip = 0
	}

	b.showHistory(ctx, userID, chatID, messageID, skip)
}

// sendRecordedVideo sends the cached report's analysis video.
func (b *Bot) sendRecordedVideo(ctx context.Context, cb *telegram.CallbackQuery) {
	report, err := b.sessions.GetReport(ctx, cb.Message.Chat.ID)
	if err != nil || report == nil || !report.HasVideo() {
		b.answer(ctx, cb.ID, "No recorded video available")
		return
	}

	b.answer(ctx, cb.ID, "")
	err = b.telegram.SendVideo(ctx, telegram.SendVideoParams{
		ChatID:            cb.Message.Chat.ID,
		Video:             report.VideoURL,
		Caption:           "Analysis recording",
		SupportsStreaming: true,
	})
	if err != nil {
		log.Error().Err(err).Str("task_uuid", report.UUID).Msg("Failed to send video")
		b.sendError(ctx, cb.Message.Chat.ID, errors.NewInternalError("failed to send the video", err))
	}
}

// sendCapturedScreenshots sends the cached report's screenshots as
// albums of at most ten photos.
func (b *Bot) sendCapturedScreenshots(ctx context.Context, cb *telegram.CallbackQuery) {
	report, err := b.sessions.GetReport(ctx, cb.Message.Chat.ID)
	if err != nil || report == nil || !report.HasScreenshots() {
		b.answer(ctx, cb.ID, "No screenshots available")
		return
	}

	b.answer(ctx, cb.ID, "")

	urls := report.ScreenshotURLs
	albums := (len(urls) + screenshotAlbumSize - 1) / screenshotAlbumSize
	for i := 0; i < albums; i++ {
		start := i * screenshotAlbumSize
		end := start + screenshotAlbumSize
		if end > len(urls) {
			end = len(urls)
		}

		media := make([]telegram.InputMediaPhoto, 0, end-start)
		for _, url := range urls[start:end] {
			media = append(media, telegram.InputMediaPhoto{Type: "photo", Media: url})
		}
		if albums > 1 {
			media[0].Caption = fmt.Sprintf("Album %d/%d", i+1, albums)
		}

		if err := b.telegram.SendMediaGroup(ctx, cb.Message.Chat.ID, media); err != nil {
			log.Error().Err(err).Str("task_uuid", report.UUID).Msg("Failed to send screenshot album")
			b.sendError(ctx, cb.Message.Chat.ID, errors.NewInternalError("failed to send screenshots", err))
			return
		}
	}
}

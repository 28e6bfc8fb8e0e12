// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

// MockTelegram is a mock implementation of telegram.API.
type MockTelegram struct {
	mock.Mock
}

// GetMe returns the bot's own account.
func (m *MockTelegram) GetMe(ctx context.Context) (*telegram.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telegram.User), args.Error(1)
}

// SendMessage sends a text message.
func (m *MockTelegram) SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telegram.Message), args.Error(1)
}

// EditMessageText replaces the text and keyboard of a sent message.
func (m *MockTelegram) EditMessageText(ctx context.Context, params telegram.EditMessageTextParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// AnswerCallbackQuery acknowledges a button press.
func (m *MockTelegram) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	args := m.Called(ctx, callbackQueryID, text)
	return args.Error(0)
}

// DeleteMessage removes a sent message.
func (m *MockTelegram) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

// SendVideo sends a video by URL.
func (m *MockTelegram) SendVideo(ctx context.Context, params telegram.SendVideoParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// SendMediaGroup sends an album of photos.
func (m *MockTelegram) SendMediaGroup(ctx context.Context, chatID int64, media []telegram.InputMediaPhoto) error {
	args := m.Called(ctx, chatID, media)
	return args.Error(0)
}

// GetChat fetches chat metadata.
func (m *MockTelegram) GetChat(ctx context.Context, chatID int64) (*telegram.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telegram.Chat), args.Error(1)
}

// GetChatMember fetches a user's standing in a chat.
func (m *MockTelegram) GetChatMember(ctx context.Context, chatID, userID int64) (*telegram.ChatMember, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telegram.ChatMember), args.Error(1)
}

// GetFile resolves a file ID into a download handle.
func (m *MockTelegram) GetFile(ctx context.Context, fileID string) (*telegram.File, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*telegram.File), args.Error(1)
}

// DownloadFile streams the content behind a file handle.
func (m *MockTelegram) DownloadFile(ctx context.Context, filePath string) (io.ReadCloser, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// SetWebhook registers the webhook URL.
func (m *MockTelegram) SetWebhook(ctx context.Context, webhookURL string) error {
	args := m.Called(ctx, webhookURL)
	return args.Error(0)
}

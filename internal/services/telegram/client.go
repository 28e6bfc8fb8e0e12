// Package telegram provides a typed client for the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultAPIURL is the production Telegram Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// API defines the transport operations the bot performs.
type API interface {
	// GetMe returns the bot's own account.
	GetMe(ctx context.Context) (*User, error)

	// SendMessage sends a text message, optionally with MarkdownV2
	// formatting and an inline keyboard.
	SendMessage(ctx context.Context, params SendMessageParams) (*Message, error)

	// EditMessageText replaces the text and keyboard of a sent message.
	EditMessageText(ctx context.Context, params EditMessageTextParams) error

	// AnswerCallbackQuery acknowledges a button press, optionally with a
	// short ephemeral notice.
	AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error

	// DeleteMessage removes a sent message.
	DeleteMessage(ctx context.Context, chatID, messageID int64) error

	// SendVideo sends a video by URL.
	SendVideo(ctx context.Context, params SendVideoParams) error

	// SendMediaGroup sends an album of up to ten photos.
	SendMediaGroup(ctx context.Context, chatID int64, media []InputMediaPhoto) error

	// GetChat fetches chat metadata (title, username, invite link).
	GetChat(ctx context.Context, chatID int64) (*Chat, error)

	// GetChatMember fetches a user's standing in a chat.
	GetChatMember(ctx context.Context, chatID, userID int64) (*ChatMember, error)

	// GetFile resolves a file ID into a download handle.
	GetFile(ctx context.Context, fileID string) (*File, error)

	// DownloadFile streams the content behind a file handle. The caller
	// closes the reader.
	DownloadFile(ctx context.Context, filePath string) (io.ReadCloser, error)

	// SetWebhook registers the webhook URL updates are pushed to.
	SetWebhook(ctx context.Context, webhookURL string) error
}

// ClientConfig holds the configuration for the Telegram client.
type ClientConfig struct {
	Token      string
	APIURL     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements the API interface against the Telegram Bot API.
type Client struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a new Telegram Bot API client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		token:      cfg.Token,
		apiURL:     apiURL,
		httpClient: httpClient,
	}, nil
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// call invokes a Bot API method with a JSON payload and decodes the
// result into out when non-nil.
func (c *Client) call(ctx context.Context, method string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", method, err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if !envelope.OK {
		if envelope.Description != "" {
			return fmt.Errorf("%s failed: %s", method, envelope.Description)
		}
		return fmt.Errorf("%s failed with status %d", method, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// GetMe returns the bot's own account.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SendMessage sends a text message.
func (c *Client) SendMessage(ctx context.Context, params SendMessageParams) (*Message, error) {
	var message Message
	if err := c.call(ctx, "sendMessage", params, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// EditMessageText replaces the text and keyboard of a sent message.
func (c *Client) EditMessageText(ctx context.Context, params EditMessageTextParams) error {
	return c.call(ctx, "editMessageText", params, nil)
}

// AnswerCallbackQuery acknowledges a button press.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	payload := map[string]string{"callback_query_id": callbackQueryID}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// DeleteMessage removes a sent message.
func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	payload := map[string]int64{"chat_id": chatID, "message_id": messageID}
	return c.call(ctx, "deleteMessage", payload, nil)
}

// SendVideo sends a video by URL.
func (c *Client) SendVideo(ctx context.Context, params SendVideoParams) error {
	return c.call(ctx, "sendVideo", params, nil)
}

// SendMediaGroup sends an album of up to ten photos.
func (c *Client) SendMediaGroup(ctx context.Context, chatID int64, media []InputMediaPhoto) error {
	payload := struct {
		ChatID int64             `json:"chat_id"`
		Media  []InputMediaPhoto `json:"media"`
	}{ChatID: chatID, Media: media}
	return c.call(ctx, "sendMediaGroup", payload, nil)
}

// GetChat fetches chat metadata.
func (c *Client) GetChat(ctx context.Context, chatID int64) (*Chat, error) {
	payload := map[string]int64{"chat_id": chatID}
	var chat Chat
	if err := c.call(ctx, "getChat", payload, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChatMember fetches a user's standing in a chat.
func (c *Client) GetChatMember(ctx context.Context, chatID, userID int64) (*ChatMember, error) {
	payload := map[string]int64{"chat_id": chatID, "user_id": userID}
	var member ChatMember
	if err := c.call(ctx, "getChatMember", payload, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// GetFile resolves a file ID into a download handle.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	payload := map[string]string{"file_id": fileID}
	var file File
	if err := c.call(ctx, "getFile", payload, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// DownloadFile streams the content behind a file handle.
func (c *Client) DownloadFile(ctx context.Context, filePath string) (io.ReadCloser, error) {
	endpoint := fmt.Sprintf("%s/file/bot%s/%s", c.apiURL, c.token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file download failed with status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// SetWebhook registers the webhook URL updates are pushed to.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	payload := map[string]string{"url": webhookURL}
	return c.call(ctx, "setWebhook", payload, nil)
}

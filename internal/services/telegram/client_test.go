package telegram_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *telegram.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := telegram.NewClient(&telegram.ClientConfig{
		Token:  "test-token",
		APIURL: srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresToken(t *testing.T) {
	client, err := telegram.NewClient(&telegram.ClientConfig{})

	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestSendMessage_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)

		var params telegram.SendMessageParams
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &params))
		assert.Equal(t, int64(42), params.ChatID)
		assert.Equal(t, "MarkdownV2", params.ParseMode)
		require.NotNil(t, params.ReplyMarkup)
		assert.Equal(t, "Back", params.ReplyMarkup.InlineKeyboard[0][0].Text)

		w.Write([]byte(`{"ok":true,"result":{"message_id":7,"chat":{"id":42}}}`))
	})

	msg, err := client.SendMessage(context.Background(), telegram.SendMessageParams{
		ChatID:    42,
		Text:      "hello",
		ParseMode: telegram.ParseModeMarkdownV2,
		ReplyMarkup: &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{
				{{Text: "Back", CallbackData: "main_menu"}},
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.MessageID)
}

func TestSendMessage_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	_, err := client.SendMessage(context.Background(), telegram.SendMessageParams{ChatID: 1, Text: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestGetChatMember(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/getChatMember", r.URL.Path)
		w.Write([]byte(`{"ok":true,"result":{"status":"administrator","user":{"id":5}}}`))
	})

	member, err := client.GetChatMember(context.Background(), -100123, 5)

	require.NoError(t, err)
	assert.True(t, member.IsMember())
}

func TestChatMember_IsMember(t *testing.T) {
	member := &telegram.ChatMember{Status: telegram.MemberStatusMember}
	assert.True(t, member.IsMember())

	for _, status := range []string{"left", "kicked", "restricted", ""} {
		member := &telegram.ChatMember{Status: status}
		assert.False(t, member.IsMember(), "status %q should not count as membership", status)
	}
}

func TestGetFileAndDownload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottest-token/getFile":
			w.Write([]byte(`{"ok":true,"result":{"file_id":"f1","file_path":"documents/sample.bin"}}`))
		case "/file/bottest-token/documents/sample.bin":
			w.Write([]byte("content"))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	file, err := client.GetFile(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "documents/sample.bin", file.FilePath)

	body, err := client.DownloadFile(context.Background(), file.FilePath)
	require.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))
}

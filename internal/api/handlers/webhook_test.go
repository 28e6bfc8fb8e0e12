package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/bot"
	rediscache "github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/infrastructure/cache/redis"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/mocks"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/pkg/encryption"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/access"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/session"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

const webhookToken = "123:test-token"

func setupWebhook(t *testing.T) (*gin.Engine, *mocks.MockTelegram) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rediscache.NewClient(rediscache.Config{
		Host:       mr.Host(),
		Port:       mr.Port(),
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)

	sessions, err := session.NewService(&session.Config{
		CacheClient: client,
		Encryptor:   encryption.NewNoOpEncryptor(),
		TTL:         time.Minute,
	})
	require.NoError(t, err)

	store := mocks.NewMemoryStore()
	tg := &mocks.MockTelegram{}
	sandbox := &mocks.MockSandbox{}

	gate, err := access.NewService(store, tg, nil)
	require.NoError(t, err)

	b, err := bot.New(store, sessions, tg, sandbox, gate)
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	router := gin.New()
	handler := NewWebhookHandler(b, webhookToken)
	router.POST("/webhook/:token", handler.Receive)
	return router, tg
}

func TestReceiveWrongToken(t *testing.T) {
	router, _ := setupWebhook(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/other-token", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceiveMalformedPayloadAcknowledged(t *testing.T) {
	router, _ := setupWebhook(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/"+webhookToken, bytes.NewBufferString(`{not json`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Telegram must not retry a payload that can never decode.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReceiveDispatchesUpdate(t *testing.T) {
	router, tg := setupWebhook(t)

	tg.On("SendMessage", mock.Anything, mock.MatchedBy(func(p telegram.SendMessageParams) bool {
		return p.ChatID == 5 && p.ReplyMarkup != nil
	})).Return(&telegram.Message{MessageID: 2}, nil)

	body := `{"update_id":1,"message":{"message_id":1,"from":{"id":5},"chat":{"id":5},"text":"/start"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/"+webhookToken, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	tg.AssertExpectations(t)
}

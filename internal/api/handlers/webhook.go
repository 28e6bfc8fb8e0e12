package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/bot"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/services/telegram"
)

// WebhookHandler receives Telegram update pushes. The bot token is part
// of the path; a wrong token gets 404 so the endpoint cannot be probed.
type WebhookHandler struct {
	bot   *bot.Bot
	token string
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(b *bot.Bot, token string) *WebhookHandler {
	return &WebhookHandler{
		bot:   b,
		token: token,
	}
}

// Receive handles POST /webhook/:token.
//
// Telegram retries a webhook until it gets a 2xx, so malformed payloads
// are acknowledged with 200 and dropped rather than bounced forever.
func (h *WebhookHandler) Receive(c *gin.Context) {
	if c.Param("token") != h.token {
		c.Status(http.StatusNotFound)
		return
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Warn().Err(err).Msg("Undecodable webhook payload dropped")
		c.Status(http.StatusOK)
		return
	}

	h.bot.HandleUpdate(c.Request.Context(), &update)
	c.Status(http.StatusOK)
}

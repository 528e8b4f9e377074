package telegram

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Bot owns the single bot token: it registers the webhook on start, verifies
// the secret on every inbound request and feeds updates into the handler.
type Bot struct {
	client         *Client
	handler        *UpdateHandler
	webhookBaseURL string
	webhookSecret  string
	pathSecret     string
}

func NewBot(client *Client, handler *UpdateHandler, token, webhookBaseURL, webhookSecret string) *Bot {
	return &Bot{
		client:         client,
		handler:        handler,
		webhookBaseURL: webhookBaseURL,
		webhookSecret:  webhookSecret,
		pathSecret:     tokenSecret(token),
	}
}

// tokenSecret derives the unguessable webhook path segment from the token.
func tokenSecret(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h[:16])
}

func (b *Bot) Start() error {
	webhookURL := fmt.Sprintf("%s/webhook/bot/%s", b.webhookBaseURL, b.pathSecret)
	if err := b.client.SetWebhook(webhookURL, b.webhookSecret); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	log.Printf("[Bot] webhook registered: %s", webhookURL)
	return nil
}

func (b *Bot) Stop() {
	if err := b.client.DeleteWebhook(); err != nil {
		log.Printf("[Bot] delete webhook: %v", err)
	}
	log.Println("[Bot] stopped")
}

func (b *Bot) HandleWebhook(c *gin.Context) {
	if c.Param("secret") != b.pathSecret {
		c.Status(http.StatusNotFound)
		return
	}

	if b.webhookSecret != "" {
		headerSecret := c.GetHeader("X-Telegram-Bot-Api-Secret-Token")
		if headerSecret != b.webhookSecret {
			c.Status(http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var upd Update
	if err := json.Unmarshal(body, &upd); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	// handled synchronously: the handler serializes updates so a second
	// event never mutates the game before the first one finished
	b.handler.Handle(upd)

	c.Status(http.StatusOK)
}

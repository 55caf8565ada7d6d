package telegram

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookHandler is the gin handler for POST /webhook. It acknowledges
// immediately and processes the update in the background; Telegram
// retries deliveries that don't get a 2xx quickly.
func (p *Processor) WebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			p.log.WithError(err).Warn("malformed webhook payload")
			p.recordUpdate("webhook", "malformed", 0)
			if p.metrics != nil {
				p.metrics.RecordHTTPError("bad_request", "webhook")
			}
			c.Status(http.StatusBadRequest)
			return
		}

		c.Status(http.StatusOK)

		p.ProcessAsync(update, "webhook")
	}
}

// RegisterWebhook tells Telegram to deliver updates to webhookURL.
func (p *Processor) RegisterWebhook(webhookURL string) error {
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return err
	}
	if _, err := p.client.api.Request(wh); err != nil {
		return err
	}
	p.log.WithField("url", webhookURL).Info("webhook registered")
	return nil
}

// DeleteWebhook removes the webhook registration; required before
// switching to long polling.
func (p *Processor) DeleteWebhook() error {
	_, err := p.client.api.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}

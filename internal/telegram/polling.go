package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/datara-labs/datara-bot/internal/config"
)

// Poll runs the long-polling loop until ctx is canceled. Used for local
// runs; deployments use the webhook instead.
func (p *Processor) Poll(ctx context.Context) {
	// A leftover webhook registration blocks getUpdates.
	if err := p.DeleteWebhook(); err != nil {
		p.log.WithError(err).Warn("failed to delete webhook before polling")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = config.PollTimeout

	updates := p.client.api.GetUpdatesChan(u)
	p.log.Info("long polling started")

	for {
		select {
		case <-ctx.Done():
			p.client.api.StopReceivingUpdates()
			p.log.Info("long polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			p.ProcessAsync(update, "polling")
		}
	}
}

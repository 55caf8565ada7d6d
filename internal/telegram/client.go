// Package telegram is the transport layer: it is the only package that
// knows about Telegram types. Inbound updates (webhook or long polling)
// are routed through the pipeline and the resulting actions executed
// against the Bot API.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/datara-labs/datara-bot/internal/drive"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/metrics"
	"github.com/datara-labs/datara-bot/internal/router"
)

// Client sends replies and documents through the Bot API.
type Client struct {
	api     *tgbotapi.BotAPI
	drive   *drive.Client
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewClient authenticates against the Bot API. drive and metrics may be
// nil when document delivery or instrumentation is not wired.
func NewClient(token string, driveClient *drive.Client, log *logger.Logger, m *metrics.Metrics) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api client: %w", err)
	}

	return &Client{
		api:     api,
		drive:   driveClient,
		log:     log.WithModule("telegram"),
		metrics: m,
	}, nil
}

// BotUsername returns the authenticated bot's username.
func (c *Client) BotUsername() string {
	return c.api.Self.UserName
}

// API exposes the underlying client for the polling loop.
func (c *Client) API() *tgbotapi.BotAPI {
	return c.api
}

// Execute runs the pipeline's actions in order. Document failures are
// reported per file and never abort the remaining actions.
func (c *Client) Execute(ctx context.Context, chatID int64, actions []router.Action) {
	for _, action := range actions {
		switch a := action.(type) {
		case router.SendText:
			c.sendText(chatID, a)
		case router.SendDocument:
			c.sendDocument(ctx, chatID, a)
		default:
			c.log.WithField("action_type", fmt.Sprintf("%T", a)).Error("unknown action type")
		}
	}
}

func (c *Client) sendText(chatID int64, a router.SendText) {
	msg := tgbotapi.NewMessage(chatID, a.Text)
	if a.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	if _, err := c.api.Send(msg); err != nil {
		c.log.WithError(err).WithField("chat_id", chatID).Error("failed to send text reply")
		return
	}
	c.recordReply("text")
}

func (c *Client) sendDocument(ctx context.Context, chatID int64, a router.SendDocument) {
	doc, err := c.drive.Fetch(ctx, a.FileURL)
	if err != nil {
		c.log.WithError(err).WithField("keyword", a.Keyword).Error("document fetch failed")
		c.sendText(chatID, router.SendText{
			Text: fmt.Sprintf("⚠️ Sorry, I couldn't fetch the %s document right now. Please try again later.", a.Keyword),
		})
		return
	}
	defer func() { _ = doc.Close() }()

	msg := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{
		Name:   doc.Name,
		Reader: doc.Content,
	})

	if _, err := c.api.Send(msg); err != nil {
		c.log.WithError(err).WithField("keyword", a.Keyword).Error("failed to send document")
		c.sendText(chatID, router.SendText{
			Text: fmt.Sprintf("⚠️ Sorry, I couldn't deliver the %s document. Please try again later.", a.Keyword),
		})
		return
	}
	c.recordReply("document")
}

func (c *Client) recordReply(kind string) {
	if c.metrics != nil {
		c.metrics.RecordReply(kind)
	}
}

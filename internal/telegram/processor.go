package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/datara-labs/datara-bot/internal/config"
	"github.com/datara-labs/datara-bot/internal/ctxutil"
	"github.com/datara-labs/datara-bot/internal/logger"
	"github.com/datara-labs/datara-bot/internal/metrics"
	"github.com/datara-labs/datara-bot/internal/router"
)

// startReply answers the /start command.
const startReply = "👋 Hi! I'm *Datara Bot*. Ask me anything!"

// Processor turns Telegram updates into pipeline runs. It is shared by
// the webhook handler and the polling loop.
type Processor struct {
	router  *router.Router
	client  *Client
	log     *logger.Logger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

// NewProcessor creates a processor. metrics may be nil.
func NewProcessor(r *router.Router, client *Client, log *logger.Logger, m *metrics.Metrics) *Processor {
	return &Processor{
		router:  r,
		client:  client,
		log:     log.WithModule("telegram"),
		metrics: m,
	}
}

// ProcessAsync handles an update in a background goroutine with panic
// recovery. transport labels metrics ("webhook" or "polling").
func (p *Processor) ProcessAsync(update tgbotapi.Update, transport string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.log.WithField("panic", r).WithField("update_id", update.UpdateID).Error("panic while processing update")
				p.recordUpdate(transport, "panic", 0)
			}
		}()
		p.Process(update, transport)
	}()
}

// Process handles one update synchronously.
func (p *Processor) Process(update tgbotapi.Update, transport string) {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.From == nil {
		return
	}

	start := time.Now()

	ctx := context.Background()
	ctx = ctxutil.WithRequestID(ctx, uuid.NewString())
	ctx = ctxutil.WithUserID(ctx, msg.From.ID)
	ctx = ctxutil.WithChatID(ctx, msg.Chat.ID)
	ctx = ctxutil.WithUpdateID(ctx, update.UpdateID)

	ctx, cancel := context.WithTimeout(ctx, config.UpdateProcessing)
	defer cancel()

	log := p.log.WithFields(map[string]any{
		"update_id": update.UpdateID,
		"user_id":   msg.From.ID,
		"chat_id":   msg.Chat.ID,
	})

	if msg.IsCommand() {
		p.handleCommand(ctx, msg)
		p.recordUpdate(transport, "success", time.Since(start).Seconds())
		return
	}

	actions := p.router.HandleMessage(ctx, msg.From.ID, msg.Text)
	p.client.Execute(ctx, msg.Chat.ID, actions)

	p.recordUpdate(transport, "success", time.Since(start).Seconds())
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("update processed")
}

func (p *Processor) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		p.client.Execute(ctx, msg.Chat.ID, []router.Action{
			router.SendText{Text: startReply, Markdown: true},
		})
	default:
		// Unknown commands run through the normal pipeline so the user
		// still gets an answer.
		actions := p.router.HandleMessage(ctx, msg.From.ID, msg.Text)
		p.client.Execute(ctx, msg.Chat.ID, actions)
	}
}

// Shutdown waits for in-flight updates, honoring the context deadline.
func (p *Processor) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Processor) recordUpdate(transport, status string, duration float64) {
	if p.metrics != nil {
		p.metrics.RecordUpdate(transport, status, duration)
	}
}

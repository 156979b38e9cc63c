package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dadjoke-bot/internal/config"
	"dadjoke-bot/internal/metrics"
	"dadjoke-bot/internal/models"
	"dadjoke-bot/internal/queue"
	"dadjoke-bot/internal/reply"
	"dadjoke-bot/pkg/logger"

	"github.com/samber/lo"
	"gopkg.in/telebot.v4"
)

// handlerTimeout bounds all upstream fetches made for one update.
const handlerTimeout = 30 * time.Second

var allowedUpdates = []string{"message", "inline_query", "chosen_inline_result"}

type Assembler interface {
	Command(ctx context.Context, source models.ContentSource) (string, *models.Content)
	Inline(ctx context.Context, query string) []models.InlineResult
}

type Publisher interface {
	PublishServed(ctx context.Context, msg *queue.ServedMessage) error
}

type Bot struct {
	settings  telebot.Settings
	webhook   *webhook
	assembler Assembler
	pub       Publisher
	tbot      *telebot.Bot
	username  string
	cfg       config.BotConfig
	now       func() time.Time
}

// New prepares the bot without contacting Telegram. pub may be nil.
func New(cfg config.BotConfig, assembler Assembler, pub Publisher) (*Bot, error) {
	if cfg.Token == "" {
		return nil, config.ErrEmptyBotToken
	}

	b := &Bot{
		cfg:       cfg,
		assembler: assembler,
		pub:       pub,
		now:       time.Now,
	}

	var poller telebot.Poller
	if cfg.UseWebhook() {
		b.webhook = newWebhook(&telebot.Webhook{
			Endpoint:       &telebot.WebhookEndpoint{PublicURL: cfg.WebhookURL()},
			SecretToken:    cfg.WebhookSecret,
			AllowedUpdates: allowedUpdates,
		})
		poller = b.webhook
	} else {
		poller = &telebot.LongPoller{
			Timeout:        cfg.PollTimeout,
			AllowedUpdates: allowedUpdates,
		}
	}

	b.settings = telebot.Settings{
		Token:  cfg.Token,
		Poller: poller,
		OnError: func(err error, c telebot.Context) {
			logger.Error("Telegram handler error", logger.Err(err))
		},
	}

	return b, nil
}

// WebhookHandler returns the handler for POST /telegram, or nil when long polling.
// It answers 503 until Start has registered the webhook with Telegram.
func (b *Bot) WebhookHandler() http.Handler {
	if b.webhook == nil {
		return nil
	}
	return b.webhook
}

func (b *Bot) Start() error {
	tbot, err := telebot.NewBot(b.settings)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	b.tbot = tbot
	b.username = tbot.Me.Username
	b.setupHandlers(tbot)

	commands := lo.Map(reply.Commands, func(c reply.Command, _ int) telebot.Command {
		return telebot.Command{Text: c.Name, Description: c.Description}
	})
	if err := tbot.SetCommands(commands); err != nil {
		logger.Warn("Failed to register bot commands", logger.Err(err))
	}

	go tbot.Start()

	logger.Info("Telegram bot started",
		logger.String("username", b.username),
		logger.Bool("webhook", b.webhook != nil),
	)
	return nil
}

func (b *Bot) Stop() {
	if b.tbot != nil {
		b.tbot.Stop()
	}
}

func (b *Bot) setupHandlers(bot *telebot.Bot) {
	bot.Handle("/start", b.handleStart)
	bot.Handle("/help", b.handleHelp)
	bot.Handle("/joke", b.handleContent(models.SourceJoke))
	bot.Handle("/advice", b.handleContent(models.SourceAdvice))
	bot.Handle("/fact", b.handleContent(models.SourceFact))
	bot.Handle(telebot.OnQuery, b.handleInline)
	bot.Handle(telebot.OnInlineResult, b.handleChosen)
	bot.Handle(telebot.OnText, b.handleText)
}

func (b *Bot) handleStart(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("start").Inc()
	logger.Info("Start command received", logger.Int64("user_id", senderID(c)))

	return c.Send(reply.Start(b.username))
}

func (b *Bot) handleHelp(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("help").Inc()
	return c.Send(reply.Help())
}

func (b *Bot) handleContent(source models.ContentSource) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		metrics.UpdatesTotal.WithLabelValues(string(source)).Inc()
		logger.Info("Content command received",
			logger.String("source", string(source)),
			logger.Int64("user_id", senderID(c)),
		)

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		text, served := b.assembler.Command(ctx, source)
		if err := c.Send(text); err != nil {
			return fmt.Errorf("failed to send %s: %w", source, err)
		}

		if served != nil {
			b.publish(ctx, served.Source, served.ID, models.PathCommand, senderID(c))
		}
		return nil
	}
}

func (b *Bot) handleInline(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("inline_query").Inc()

	query := c.Query()
	if query == nil {
		return nil
	}
	logger.Info("Inline query received",
		logger.String("query", query.Text),
		logger.Int64("user_id", senderID(c)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	results := b.assembler.Inline(ctx, query.Text)

	err := c.Answer(&telebot.QueryResponse{
		Results:    articles(results),
		CacheTime:  b.cfg.InlineCacheSeconds,
		IsPersonal: true,
	})
	if err != nil {
		return fmt.Errorf("failed to answer inline query: %w", err)
	}

	logger.Debug("Inline query answered", logger.Int("results", len(results)))
	return nil
}

// handleChosen reports which inline result a user actually sent.
func (b *Bot) handleChosen(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("inline_result").Inc()

	res := c.InlineResult()
	if res == nil {
		return nil
	}
	source, contentID, ok := reply.SourceFromResultID(res.ResultID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	b.publish(ctx, source, contentID, models.PathInline, senderID(c))
	return nil
}

// handleText answers stray private messages with a usage hint. Group chatter
// and messages sent through the bot's own inline mode are ignored.
func (b *Bot) handleText(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("text").Inc()

	chat := c.Chat()
	if chat == nil || chat.Type != telebot.ChatPrivate {
		return nil
	}
	if msg := c.Message(); msg != nil && msg.Via != nil {
		return nil
	}
	return c.Send("Use /joke, /advice or /fact, or type @" + b.username + " in any chat.")
}

func (b *Bot) publish(ctx context.Context, source models.ContentSource, contentID string, path models.ServedPath, userID int64) {
	if b.pub == nil {
		return
	}

	msg := &queue.ServedMessage{
		Source:    source,
		ContentID: contentID,
		Path:      path,
		UserID:    userID,
		ServedAt:  b.now().UTC(),
	}
	if err := b.pub.PublishServed(ctx, msg); err != nil {
		metrics.PublishErrorsTotal.Inc()
		logger.Error("Failed to publish served message",
			logger.Err(err),
			logger.String("source", string(source)),
		)
	}
}

func articles(results []models.InlineResult) telebot.Results {
	out := make(telebot.Results, 0, len(results))
	for _, r := range results {
		out = append(out, &telebot.ArticleResult{
			ResultBase: telebot.ResultBase{
				ID:      r.ID,
				Content: &telebot.InputTextMessageContent{Text: r.MessageBody},
			},
			Title:       r.Title,
			Description: r.Description,
		})
	}
	return out
}

func senderID(c telebot.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

package bot

import (
	"encoding/json"
	"net/http"
	"sync"

	"dadjoke-bot/pkg/logger"

	"gopkg.in/telebot.v4"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// webhook is the telebot poller for webhook mode. It is mounted on the
// shared HTTP server, which comes up before the bot does, so requests
// are refused with 503 until Poll has registered the webhook.
type webhook struct {
	params *telebot.Webhook

	mu   sync.RWMutex
	dest chan<- telebot.Update
}

func newWebhook(params *telebot.Webhook) *webhook {
	return &webhook{params: params}
}

func (w *webhook) Poll(b *telebot.Bot, dest chan telebot.Update, stop chan struct{}) {
	if err := b.SetWebhook(w.params); err != nil {
		logger.Error("Failed to set webhook", logger.Err(err))
	} else {
		w.setDest(dest)
		logger.Info("Webhook registered", logger.String("url", w.params.Endpoint.PublicURL))
	}

	<-stop
	w.setDest(nil)
}

func (w *webhook) setDest(dest chan<- telebot.Update) {
	w.mu.Lock()
	w.dest = dest
	w.mu.Unlock()
}

func (w *webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.mu.RLock()
	dest := w.dest
	w.mu.RUnlock()

	if dest == nil {
		http.Error(rw, "bot is not running", http.StatusServiceUnavailable)
		return
	}

	if w.params.SecretToken != "" && r.Header.Get(secretTokenHeader) != w.params.SecretToken {
		logger.Warn("Webhook request with invalid secret token")
		http.Error(rw, "invalid secret token", http.StatusUnauthorized)
		return
	}

	var update telebot.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Warn("Cannot decode webhook update", logger.Err(err))
		http.Error(rw, "invalid update", http.StatusBadRequest)
		return
	}

	select {
	case dest <- update:
	case <-r.Context().Done():
	}
}

package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/snikulin87-hue/pres-entation/internal/deck"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
	log logrus.FieldLogger
}

// NewBot connects to the Bot API, points its webhook at webhookURL and serves
// the given deck.
func NewBot(token, webhookURL string, d *deck.Deck, narrator Narration, defaultVariant string, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	// set webhook
	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log.WithField("url", webhookURL).Info("telegram: webhook set")

	h := NewHandlers(api, d, narrator, defaultVariant, log)
	return &Bot{api: api, h: h, log: log}, nil
}

// WebhookHandler returns the HTTP handler registered at /telegram/webhook.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return WebhookHandler(b.h, b.log)
}

// WebhookHandler decodes updates and handles messages in the background.
func WebhookHandler(h *Handlers, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		if update.Message == nil {
			log.Debug("webhook: non-message update received")
			w.WriteHeader(http.StatusOK)
			return
		}
		log.WithFields(logrus.Fields{"chat_id": update.Message.Chat.ID, "text": update.Message.Text}).Info("webhook: message")
		go h.HandleMessage(update.Message)
		w.WriteHeader(http.StatusOK)
	}
}

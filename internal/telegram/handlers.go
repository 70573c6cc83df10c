package telegram

import (
	"context"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/snikulin87-hue/pres-entation/internal/deck"
	"github.com/snikulin87-hue/pres-entation/internal/presenter"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

var (
	// /deck [variant]
	reDeck = regexp.MustCompile(`^/deck(?:@[\w_]+)?(?:\s+([a-z]+))?$`)
	// /scenario NAME [variant]
	reScenario = regexp.MustCompile(`^/scenario(?:@[\w_]+)?\s+([a-z]+)(?:\s+([a-z]+))?$`)
	// /notes NAME [variant]
	reNotes = regexp.MustCompile(`^/notes(?:@[\w_]+)?\s+([a-z]+)(?:\s+([a-z]+))?$`)
	// /questions [variant]
	reQuestions = regexp.MustCompile(`^/questions(?:@[\w_]+)?(?:\s+([a-z]+))?$`)
	// /help
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

// Sender is the part of the Bot API the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Narration writes text for slides; nil disables /notes and /questions.
type Narration interface {
	Notes(ctx context.Context, v projection.Variant, sc projection.Scenario) (string, error)
	Questions(ctx context.Context, v projection.Variant) (string, error)
}

type Handlers struct {
	api            Sender
	deck           *deck.Deck
	narrator       Narration
	defaultVariant string
	log            logrus.FieldLogger
}

func NewHandlers(api Sender, d *deck.Deck, narrator Narration, defaultVariant string, log logrus.FieldLogger) *Handlers {
	if defaultVariant == "" {
		defaultVariant = projection.VariantTranches
	}
	return &Handlers{api: api, deck: d, narrator: narrator, defaultVariant: defaultVariant, log: log}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	txt := strings.ToLower(strings.TrimSpace(m.Text))
	switch {
	case reDeck.MatchString(txt):
		g := reDeck.FindStringSubmatch(txt)
		h.handleDeck(m.Chat.ID, h.variant(g[1]))

	case reScenario.MatchString(txt):
		g := reScenario.FindStringSubmatch(txt)
		sc, err := projection.ParseScenario(g[1])
		if err != nil {
			h.reply(m.Chat.ID, "Scenario failed: "+err.Error())
			return
		}
		h.handleScenario(m.Chat.ID, sc, h.variant(g[2]))

	case reNotes.MatchString(txt):
		g := reNotes.FindStringSubmatch(txt)
		sc, err := projection.ParseScenario(g[1])
		if err != nil {
			h.reply(m.Chat.ID, "Notes failed: "+err.Error())
			return
		}
		h.handleNotes(m.Chat.ID, sc, h.variant(g[2]))

	case reQuestions.MatchString(txt):
		g := reQuestions.FindStringSubmatch(txt)
		h.handleQuestions(m.Chat.ID, h.variant(g[1]))

	case reHelp.MatchString(txt):
		h.handleHelp(m.Chat.ID)
	}
}

func (h *Handlers) variant(name string) string {
	if name == "" {
		return h.defaultVariant
	}
	return name
}

func (h *Handlers) handleDeck(chatID int64, variant string) {
	pg, err := h.deck.Build(variant, deck.PageDeck, presenter.FormatPNG)
	if err != nil {
		h.reply(chatID, "Deck failed: "+err.Error())
		return
	}
	for _, c := range pg.Charts() {
		h.sendChart(chatID, variant, c)
	}
}

func (h *Handlers) handleScenario(chatID int64, sc projection.Scenario, variant string) {
	c, err := h.deck.Chart(variant, deck.PageDeck, deck.ScenarioMount(sc), presenter.FormatPNG)
	if err != nil {
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	h.sendChart(chatID, variant, c)
}

func (h *Handlers) handleNotes(chatID int64, sc projection.Scenario, variant string) {
	if h.narrator == nil {
		h.reply(chatID, "Notes are disabled: no OpenAI key configured.")
		return
	}
	v, err := h.deck.Catalog().Variant(variant)
	if err != nil {
		h.reply(chatID, "Notes failed: "+err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()
	out, err := h.narrator.Notes(ctx, v, sc)
	if err != nil {
		h.reply(chatID, "Notes failed: "+err.Error())
		return
	}
	h.reply(chatID, out)
}

func (h *Handlers) handleQuestions(chatID int64, variant string) {
	if h.narrator == nil {
		h.reply(chatID, "Questions are disabled: no OpenAI key configured.")
		return
	}
	v, err := h.deck.Catalog().Variant(variant)
	if err != nil {
		h.reply(chatID, "Questions failed: "+err.Error())
		return
	}
	h.reply(chatID, "Drafting investor questions…")
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	out, err := h.narrator.Questions(ctx, v)
	if err != nil {
		h.reply(chatID, "Questions failed: "+err.Error())
		return
	}
	msg := tgbotapi.NewMessage(chatID, out)
	msg.ParseMode = "Markdown"
	h.send(msg)
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /deck [variant] - Every chart of the deck page\n" +
		"- /scenario pessimistic|average|positive [variant] - One scenario chart\n" +
		"- /notes pessimistic|average|positive [variant] - Speaker notes for a scenario\n" +
		"- /questions [variant] - Likely investor questions with suggested answers\n" +
		"\nVariants: " + strings.Join(h.deck.Catalog().Names(), ", ") + " (default: " + h.defaultVariant + ")"
	h.reply(chatID, help)
}

func (h *Handlers) sendChart(chatID int64, variant string, c *presenter.Chart) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: variant + "_" + c.Mount + ".png", Bytes: c.Image})
	photo.Caption = c.Description.Title
	if c.Description.Subtitle != "" {
		photo.Caption += " • " + c.Description.Subtitle
	}
	h.send(photo)
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handlers) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		h.log.WithError(err).Warn("telegram: send failed")
	}
}

package telegram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snikulin87-hue/pres-entation/internal/deck"
	"github.com/snikulin87-hue/pres-entation/internal/presenter"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

type recorder struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (r *recorder) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, nil
}

func (r *recorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (r *recorder) photos() []tgbotapi.PhotoConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tgbotapi.PhotoConfig
	for _, c := range r.sent {
		if p, ok := c.(tgbotapi.PhotoConfig); ok {
			out = append(out, p)
		}
	}
	return out
}

type pngRenderer struct{}

func (pngRenderer) Render(d presenter.Description, _ presenter.Format) ([]byte, error) {
	return []byte("\x89PNG" + d.Title), nil
}

type fakeNarrator struct {
	err error
}

func (f fakeNarrator) Notes(_ context.Context, v projection.Variant, sc projection.Scenario) (string, error) {
	return "notes " + v.Name + " " + string(sc), f.err
}

func (f fakeNarrator) Questions(_ context.Context, v projection.Variant) (string, error) {
	return "questions " + v.Name, f.err
}

func newTestHandlers(t *testing.T, narrator Narration) (*Handlers, *recorder) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cat, err := projection.NewCatalog(nil)
	require.NoError(t, err)
	p := presenter.New(log, presenter.WithScenarioRenderer(pngRenderer{}), presenter.WithComparisonRenderer(pngRenderer{}))
	rec := &recorder{}
	return NewHandlers(rec, deck.New(cat, p, log), narrator, "", log), rec
}

func message(text string) *tgbotapi.Message {
	return &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 42}, From: &tgbotapi.User{ID: 7}}
}

func TestDeckCommandSendsEveryChart(t *testing.T) {
	h, rec := newTestHandlers(t, nil)
	h.HandleMessage(message("/deck clients"))

	photos := rec.photos()
	require.Len(t, photos, 5)
	assert.Equal(t, int64(42), photos[0].ChatID)
	assert.Equal(t, "Revenue by Scenario • Million Rubles", photos[0].Caption)
	assert.Equal(t, "Пессимистичный сценарий • Клиенты и прибыль", photos[1].Caption)
	file, ok := photos[1].File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "clients_chart-pessimistic.png", file.Name)
}

func TestScenarioCommand(t *testing.T) {
	h, rec := newTestHandlers(t, nil)
	h.HandleMessage(message("/scenario@pitch_bot avg"))

	photos := rec.photos()
	require.Len(t, photos, 1)
	assert.Equal(t, "Средний сценарий • Инвестиции и выручка", photos[0].Caption)

	h.HandleMessage(message("/scenario moonshot"))
	texts := rec.texts()
	require.Len(t, texts, 1)
	assert.True(t, strings.HasPrefix(texts[0], "Scenario failed: unknown scenario"), texts[0])
}

func TestUnknownVariantReplies(t *testing.T) {
	h, rec := newTestHandlers(t, nil)
	h.HandleMessage(message("/deck quarterly"))

	texts := rec.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Deck failed: unknown variant")
	assert.Empty(t, rec.photos())
}

func TestNotesCommand(t *testing.T) {
	h, rec := newTestHandlers(t, fakeNarrator{})
	h.HandleMessage(message("/notes positive cashflow"))
	assert.Equal(t, []string{"notes cashflow positive"}, rec.texts())

	h, rec = newTestHandlers(t, nil)
	h.HandleMessage(message("/notes positive"))
	assert.Equal(t, []string{"Notes are disabled: no OpenAI key configured."}, rec.texts())

	h, rec = newTestHandlers(t, fakeNarrator{err: errors.New("rate limited")})
	h.HandleMessage(message("/notes pess"))
	assert.Equal(t, []string{"Notes failed: rate limited"}, rec.texts())
}

func TestQuestionsCommand(t *testing.T) {
	h, rec := newTestHandlers(t, fakeNarrator{})
	h.HandleMessage(message("/questions"))
	assert.Equal(t, []string{"Drafting investor questions…", "questions tranches"}, rec.texts())
}

func TestHelpAndUnknownCommands(t *testing.T) {
	h, rec := newTestHandlers(t, nil)
	h.HandleMessage(message("hello there"))
	assert.Empty(t, rec.sent)

	h.HandleMessage(message("/start"))
	texts := rec.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "/scenario")
	assert.Contains(t, texts[0], "cashflow, tranches, clients")
}

func TestWebhookHandler(t *testing.T) {
	h, rec := newTestHandlers(t, nil)
	log := logrus.New()
	log.SetOutput(io.Discard)
	handler := WebhookHandler(h, log)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := `{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"},"from":{"id":7,"is_bot":false,"first_name":"A"},"text":"/help"}}`
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Eventually(t, func() bool { return len(rec.texts()) == 1 }, time.Second, 10*time.Millisecond)
}

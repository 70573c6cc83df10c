package openai

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/snikulin87-hue/pres-entation/internal/format"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

const DefaultModel = "gpt-4"

// Narrator writes speaker notes for deck slides.
type Narrator struct {
	cli   oa.Client
	model string
}

func NewNarrator(apiKey, model string, opts ...option.RequestOption) *Narrator {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Narrator{cli: oa.NewClient(opts...), model: model}
}

// Notes asks for short speaker notes for one scenario slide.
func (n *Narrator) Notes(ctx context.Context, v projection.Variant, sc projection.Scenario) (string, error) {
	s, err := v.Scenario(sc)
	if err != nil {
		return "", err
	}
	resp, err := n.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: n.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage("You write speaker notes for an investor pitch deck. Answer in Russian. Use 3-5 short bullets: where the scenario breaks even, how revenue grows, what the investment tranches buy. Quote amounts exactly as given. Do not invent numbers."),
			oa.UserMessage(fmt.Sprintf("Slide: %s, %s scenario.\n%s", v.Title, sc.Title(), Brief(s))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Brief renders a series as plain text lines for prompts, one month per line.
func Brief(s projection.Series) string {
	var b strings.Builder
	if m, ok := projection.Breakeven(s.NetProfit); ok {
		fmt.Fprintf(&b, "Breakeven: %s\n", s.Labels[m])
	} else if s.NetProfit != nil {
		b.WriteString("Breakeven: not within the horizon\n")
	}
	for _, r := range s.Records() {
		parts := []string{r.Month}
		if r.Revenue != nil {
			parts = append(parts, "revenue "+format.Rubles(r.Revenue.InexactFloat64()))
		}
		if r.Expenses != nil {
			parts = append(parts, "expenses "+format.Rubles(r.Expenses.InexactFloat64()))
		}
		if r.Investment != nil && !r.Investment.IsZero() {
			parts = append(parts, "tranche "+format.Rubles(r.Investment.InexactFloat64()))
		}
		if r.NetProfit != nil && r.NetProfit.Valid {
			parts = append(parts, "net profit "+format.Rubles(r.NetProfit.Decimal.InexactFloat64()))
		}
		if r.CashFlow != nil {
			parts = append(parts, "cumulative cash flow "+format.Rubles(r.CashFlow.InexactFloat64()))
		}
		if r.Clients != nil {
			parts = append(parts, fmt.Sprintf("%d clients", *r.Clients))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

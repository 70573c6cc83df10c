package openai

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"

	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

// Questions drafts the investor questions a variant is likely to draw, with
// suggested answers, so the presenter can rehearse.
func (n *Narrator) Questions(ctx context.Context, v projection.Variant) (string, error) {
	systemPrompt := `You are a venture investor reviewing a seed-stage financial plan. You will receive three scenarios (pessimistic, average, positive) month by month.

Your response must follow this exact structure:

**Key Risks:**
[The assumptions most likely to break]

**Questions:**
[5 numbered questions an investor would ask about these numbers]

**Suggested Answers:**
[One short answer per question, grounded in the figures given]

Guidelines:
- Answer in Russian
- Quote amounts exactly as given, do not invent numbers
- Compare the scenarios where it matters (breakeven month, cash need)
- Use clear, concise explanations`

	var b strings.Builder
	for _, sc := range v.Scenarios() {
		s, err := v.Scenario(sc)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "## %s\n%s\n", sc.Title(), Brief(s))
	}

	resp, err := n.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: n.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(fmt.Sprintf("Plan: %s\n\n%s", v.Title, b.String())),
		},
		MaxTokens: oa.Int(1500), // Limit response length for telegram
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

package projection

import (
	"errors"
	"fmt"
	"strings"
)

// Scenario names one financial-outcome track.
type Scenario string

const (
	Pessimistic Scenario = "pessimistic"
	Average     Scenario = "average"
	Positive    Scenario = "positive"
)

// Scenarios lists every scenario from the most cautious to the most optimistic.
var Scenarios = []Scenario{Pessimistic, Average, Positive}

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrUnknownVariant  = errors.New("unknown variant")
)

// ParseScenario accepts the scenario name and a few short aliases (pess, avg, pos).
func ParseScenario(s string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pessimistic", "pess", "worst":
		return Pessimistic, nil
	case "average", "avg", "base":
		return Average, nil
	case "positive", "pos", "best":
		return Positive, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScenario, s)
}

// Title is the English display name used in legends.
func (s Scenario) Title() string {
	switch s {
	case Pessimistic:
		return "Pessimistic"
	case Average:
		return "Average"
	case Positive:
		return "Positive"
	}
	return string(s)
}

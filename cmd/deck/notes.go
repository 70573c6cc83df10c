package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/snikulin87-hue/pres-entation/internal/openai"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

var (
	flagNotesScenario string
	flagQuestions     bool
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Write speaker notes for a scenario slide with OpenAI",
	RunE:  runNotes,
}

func init() {
	notesCmd.Flags().StringVarP(&flagNotesScenario, "scenario", "s", string(projection.Average), "Scenario (pessimistic, average, positive)")
	notesCmd.Flags().BoolVar(&flagQuestions, "questions", false, "Draft likely investor questions for the whole variant instead")
	rootCmd.AddCommand(notesCmd)
}

func runNotes(_ *cobra.Command, _ []string) error {
	flagNoStore = true
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.OpenAI.APIKey == "" {
		return errors.New("no OpenAI key: set OPENAI_API_KEY or openai.api_key")
	}
	v, err := a.deck.Catalog().Variant(flagVariant)
	if err != nil {
		return err
	}
	narrator := openai.NewNarrator(a.cfg.OpenAI.APIKey, a.cfg.OpenAI.Model)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	var out string
	if flagQuestions {
		out, err = narrator.Questions(ctx, v)
	} else {
		sc, perr := projection.ParseScenario(flagNotesScenario)
		if perr != nil {
			return perr
		}
		out, err = narrator.Notes(ctx, v, sc)
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

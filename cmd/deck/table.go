package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snikulin87-hue/pres-entation/internal/deck"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

var flagScenario string

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the monthly projection of a variant",
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().StringVarP(&flagScenario, "scenario", "s", "", "Only this scenario (pessimistic, average, positive)")
	rootCmd.AddCommand(tableCmd)
}

func runTable(_ *cobra.Command, _ []string) error {
	flagNoStore = true
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	v, err := a.deck.Catalog().Variant(flagVariant)
	if err != nil {
		return err
	}
	var sc projection.Scenario
	if flagScenario != "" {
		if sc, err = projection.ParseScenario(flagScenario); err != nil {
			return err
		}
	}
	out, err := deck.RenderVariant(v, sc)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

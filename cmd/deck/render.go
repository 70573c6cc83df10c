package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/snikulin87-hue/pres-entation/internal/deck"
	"github.com/snikulin87-hue/pres-entation/internal/presenter"
)

var (
	flagPage   string
	flagFormat string
	flagOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a page's charts to image files plus index.html",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&flagPage, "page", "p", deck.PageDeck, "Page template (deck, landing)")
	renderCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Image format (png, svg); defaults to render.format")
	renderCmd.Flags().StringVarP(&flagOut, "out", "o", "out", "Output directory")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	name := flagFormat
	if name == "" {
		name = a.cfg.Render.Format
	}
	f, err := presenter.ParseFormat(name)
	if err != nil {
		return err
	}
	pg, err := a.deck.Build(flagVariant, flagPage, f)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(flagOut, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for _, c := range pg.Charts() {
		path := filepath.Join(flagOut, c.Mount+"."+string(c.Format))
		if err := os.WriteFile(path, c.Image, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("  %s\n", path)
	}
	v, err := a.deck.Catalog().Variant(flagVariant)
	if err != nil {
		return err
	}
	index := filepath.Join(flagOut, "index.html")
	if err := os.WriteFile(index, []byte(deck.PageHTML(v.Title, pg)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", index, err)
	}
	fmt.Printf("  %s\n", index)
	return nil
}

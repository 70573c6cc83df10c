package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snikulin87-hue/pres-entation/internal/config"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(flagConfig)
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", flagConfig)
	if _, err := os.Stat(flagConfig); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Render]")
	fmt.Printf("    Size:      %dx%d %s\n", cfg.Render.Width, cfg.Render.Height, cfg.Render.Format)
	fmt.Printf("    Cache TTL: %s\n", cfg.Render.CacheTTL)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Port:      %s\n", cfg.Server.Port)
	fmt.Printf("    Database:  %s\n", cfg.Storage.DBPath)
	fmt.Printf("    Retention: %s (%s)\n", cfg.Server.Retention, cfg.Server.SweepSchedule)
	fmt.Println()

	fmt.Println("  [Integrations]")
	fmt.Printf("    Telegram: %s\n", configured(cfg.Telegram.Token != "" && cfg.Telegram.WebhookPublicURL != ""))
	fmt.Printf("    OpenAI:   %s (%s)\n", configured(cfg.OpenAI.APIKey != ""), cfg.OpenAI.Model)
	fmt.Println()

	growth, err := cfg.GrowthParams()
	if err != nil {
		return err
	}
	defaults := projection.DefaultGrowth()
	fmt.Println("  [Growth]")
	for _, sc := range projection.Scenarios {
		g, ok := growth[sc]
		source := "override"
		if !ok {
			g, source = defaults[sc], "default"
		}
		fmt.Printf("    %-11s +%d clients/month, rate %s, %s ₽/client (%s)\n",
			sc, g.ClientsPerMonth, g.ClientGrowthRate, g.RevenuePerClient, source)
	}
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(flagConfig); err == nil {
		return fmt.Errorf("%s already exists", flagConfig)
	}
	if err := config.Save(flagConfig, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", flagConfig)
	return nil
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

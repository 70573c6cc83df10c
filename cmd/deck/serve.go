package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snikulin87-hue/pres-entation/internal/openai"
	"github.com/snikulin87-hue/pres-entation/internal/server"
	"github.com/snikulin87-hue/pres-entation/internal/telegram"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the deck over HTTP, sweep old snapshots and run the Telegram webhook",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	var narrator telegram.Narration
	if cfg.OpenAI.APIKey != "" {
		narrator = openai.NewNarrator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	var webhook http.HandlerFunc
	if cfg.Telegram.Token != "" && cfg.Telegram.WebhookPublicURL != "" {
		tg, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.WebhookPublicURL, a.deck, narrator, cfg.Telegram.DefaultVariant, log)
		if err != nil {
			return err
		}
		webhook = tg.WebhookHandler()
	} else {
		log.Info("telegram: no token or webhook URL, bot disabled")
	}
	router := server.NewRouter(a.deck, webhook, log) // registers /telegram/webhook when the bot runs

	if a.store != nil {
		retention, err := cfg.Retention()
		if err != nil {
			return err
		}
		sweeper, err := server.NewSweeper(a.store, retention, cfg.Server.SweepSchedule, log)
		if err != nil {
			return err
		}
		sweeper.Start()
		defer sweeper.Stop()
		log.WithField("schedule", cfg.Server.SweepSchedule).Info("sweeper: started")
	}

	srv := server.NewServer(":"+cfg.Server.Port, router)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Infof("http: listening on %s", srv.Addr)
	return server.ListenAndServe(srv)
}

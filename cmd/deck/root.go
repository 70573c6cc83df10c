package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snikulin87-hue/pres-entation/internal/config"
	"github.com/snikulin87-hue/pres-entation/internal/deck"
	"github.com/snikulin87-hue/pres-entation/internal/presenter"
	"github.com/snikulin87-hue/pres-entation/internal/projection"
	"github.com/snikulin87-hue/pres-entation/internal/storage"
)

var (
	flagConfig  string
	flagVariant string
	flagNoStore bool
)

var rootCmd = &cobra.Command{
	Use:           "deck",
	Short:         "Pitch deck financial charts",
	Long:          "Render the scenario charts of the investor deck, print the projection tables and serve them over HTTP and Telegram.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.ConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVarP(&flagVariant, "variant", "v", projection.VariantTranches, "Dataset variant (cashflow, tranches, clients)")
	rootCmd.PersistentFlags().BoolVar(&flagNoStore, "no-store", false, "Skip the SQLite snapshot store")
}

// app is what every command builds from the config.
type app struct {
	cfg   config.Config
	log   *logrus.Logger
	deck  *deck.Deck
	store *storage.Store
	close func()
}

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.General.LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logLevel, err := logrus.ParseLevel(cfg.General.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

func setup() (*app, error) {
	cfg, err := config.LoadFile(flagConfig)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	growth, err := cfg.GrowthParams()
	if err != nil {
		return nil, err
	}
	catalog, err := projection.NewCatalog(growth)
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger, close: func() {}}
	opts := []presenter.Option{
		presenter.WithScenarioRenderer(presenter.NewRenderer(cfg.Render.Width, cfg.Render.Height)),
		presenter.WithComparisonRenderer(presenter.NewComparisonRenderer(cfg.Render.Width, cfg.Render.Height)),
		presenter.WithCache(presenter.NewCache(ttl)),
	}
	if !flagNoStore {
		// Ensure parent directory for the DB exists
		_ = os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755)
		db, err := storage.OpenSQLite("file:" + cfg.Storage.DBPath + "?_fk=1")
		if err != nil {
			return nil, err
		}
		if err := storage.InitSchema(db); err != nil {
			db.Close()
			return nil, err
		}
		logger.WithField("path", cfg.Storage.DBPath).Debug("db: snapshot store ready")
		a.store = storage.NewStore(db)
		a.close = func() { db.Close() }
		opts = append(opts, presenter.WithStore(deck.Snapshots{Store: a.store}))
	}

	a.deck = deck.New(catalog, presenter.New(logger, opts...), logger)
	return a, nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/api"
	"github.com/jonathan/talentalb/internal/config"
	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/kvstore"
	"github.com/jonathan/talentalb/internal/logging"
	"github.com/jonathan/talentalb/internal/render"
)

// Global flags shared by every command
var (
	configFile  string
	apiURL      string
	storeKind   string
	dataDir     string
	localeFlag  string
	logLevel    string
	logFormat   string
	timeoutFlag time.Duration
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "Path to a JSON or YAML config file")
	pf.StringVar(&apiURL, "api-url", "", "Backend base URL (overrides api_base_url)")
	pf.StringVar(&storeKind, "store", "", "Local store backend: file, memory, redis or postgres")
	pf.StringVar(&dataDir, "data-dir", "", "Directory of the file store")
	pf.StringVar(&localeFlag, "locale", "", "UI language: it, en or sq (default: stored preference, then $LANG)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: console or json")
	pf.DurationVar(&timeoutFlag, "timeout", 0, "HTTP timeout, e.g. 10s")
}

// app bundles what a command needs. Build it with newApp and release it with Close.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	store     kvstore.Store
	client    *api.Client
	tr        *i18n.Translator
	formatter *render.Formatter
	printer   *render.Printer
	out       io.Writer
}

// loadConfig merges defaults, the config file, the environment and the flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	loaded, err := config.LoadConfig(configFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg := loaded.MergeWithDefaults(config.Defaults())

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIBaseURL = apiURL
	}
	if flags.Changed("store") {
		cfg.Store = storeKind
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("locale") {
		cfg.Locale = localeFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeoutFlag
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := kvstore.Open(ctx, kvstore.Options{
		Backend:     cfg.Store,
		Dir:         cfg.DataDir,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		Prefix:      "talentalb:",
		Logger:      logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	client, err := api.NewClient(&api.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var locale i18n.Locale
	if cfg.Locale != "" {
		if locale, err = i18n.ParseLocale(cfg.Locale); err != nil {
			_ = store.Close()
			return nil, err
		}
	} else {
		locale = i18n.DetectLocale(ctx, store, os.Getenv, logger)
	}
	catalog, err := i18n.LoadCatalog()
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	tr := i18n.NewTranslator(catalog, locale)

	out := cmd.OutOrStdout()
	formatter := render.NewFormatter(tr)
	a := &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		client:    client,
		tr:        tr,
		formatter: formatter,
		printer:   render.NewPrinter(out, formatter),
		out:       out,
	}
	logger.Debug("client ready",
		zap.String("api", cfg.APIBaseURL),
		zap.String("store", cfg.Store),
		zap.String("locale", string(locale)))
	return a, nil
}

// Close releases the store and flushes the logger.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close local store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// println writes one translated line to the command output.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (a *app) println(key string, repl i18n.Replacements) {
	fmt.Fprintln(a.out, a.tr.T(key, repl))
}

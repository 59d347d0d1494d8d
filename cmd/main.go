// Package main provides the CLI entrypoint for the backlink opportunity checker.
// It wires subcommands (check, classify, rules, serve), loads configuration, and initializes logging.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"backlinks/internal/analyzer"
	"backlinks/internal/config"
	"backlinks/internal/enricher"
	"backlinks/internal/rules"
	"backlinks/pkg/enrichment/openai"
	"backlinks/pkg/logger"
	"backlinks/pkg/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newClassifier builds the rule battery, from the configured rules file when set.
func newClassifier(cfg *config.Config) (*rules.Classifier, error) {
	if cfg.Classifier.RulesPath == "" {
		return rules.Default(), nil
	}

	rc, err := rules.LoadConfig(cfg.Classifier.RulesPath)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	c, err := rules.New(rc)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", cfg.Classifier.RulesPath, err)
	}

	return c, nil
}

// newAnalyzer creates the analyzer with the configured classifier and, when an
// API key is available, the rate-limited enrichment client.
func newAnalyzer(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (analyzer.Analyzer, error) {
	classifier, err := newClassifier(cfg)
	if err != nil {
		return nil, err
	}

	var e analyzer.Enricher
	switch {
	case cfg.Enrichment.Enabled && cfg.Enrichment.APIKey == "":
		logger.Warn(ctx, "enrichment is enabled but no API key is configured, skipping enrichment")
	case cfg.Enrichment.Enabled:
		client := openai.New(&http.Client{}, cfg.Enrichment.APIKey, openai.Options{
			BaseURL: cfg.Enrichment.BaseURL,
			Model:   cfg.Enrichment.Model,
		})
		e = enricher.NewLimited(client, enricher.NewOptions(cfg))
	}

	return analyzer.New(classifier, e, m, analyzer.NewOptions(cfg)), nil
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:           "backlinks",
		Short:         "Finds backlink opportunities a competitor has and a client lacks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// there is no way to access flags before command execution in cobra.
	// configSource parses the config flag on its own, wherever it appears.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "Config File Path")

	configPath, explicit := configSource(os.Args[1:])
	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal("could not setup logger: ", err)
	}

	ctx := context.Background()
	if _, statErr := os.Stat(configPath); statErr != nil {
		logger.Info(ctx, "no config file found, using environment and defaults", zap.String("path", configPath))
	} else {
		logger.Debug(ctx, "loaded config file", zap.String("path", configPath))
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		checkCommand(cfg),
		classifyCommand(cfg),
		rulesCommand(cfg),
		serveCommand(cfg),
	)

	err = rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1) //nolint: gocritic
	}
}

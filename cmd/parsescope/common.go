package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parsescope/parsescope/internal/api"
	"github.com/parsescope/parsescope/internal/config"
	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/database"
	"github.com/parsescope/parsescope/internal/log"
	"github.com/parsescope/parsescope/internal/report"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the global flags and the configuration
// file. Command-specific settings are applied by the caller, which must
// call Validate afterwards.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Host, err = flags.GetString(config.FlagHost); err != nil {
		return nil, err
	}
	if cfg.Port, err = flags.GetInt(config.FlagPort); err != nil {
		return nil, err
	}
	if cfg.BaseURL, err = flags.GetString(config.FlagBaseURL); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = flags.GetString(config.FlagProxy); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration(config.FlagTimeout); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Profile, err = flags.GetString("profile"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	dataDir, err := flags.GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DBDir = dataDir
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := cfg.Load(flags.Changed); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger creates the redacting structured logger on stderr. It logs
// warnings and errors by default and everything with --verbose.
func setupLogger(cmd *cobra.Command, verbose bool) (*slog.Logger, error) {
	raw, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}
	format, err := log.ParseFormat(raw)
	if err != nil {
		return nil, err
	}
	return log.New(os.Stderr, log.Options{Verbose: verbose, Format: format}), nil
}

// prepare builds and validates the configuration after apply has set the
// command's own options, and installs the logger.
func prepare(cmd *cobra.Command, apply func(*config.Config) error) (*config.Config, *slog.Logger, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	logger, err := setupLogger(cmd, cfg.Verbose)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	logger.Debug("configuration loaded",
		"backend", cfg.BackendURL(),
		"profile", cfg.Profile,
		"headers", log.RedactHeaders(cfg.Headers),
	)
	return cfg, logger, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// newClient creates the backend client described by cfg.
func newClient(cfg *config.Config, logger *slog.Logger) (*api.Client, error) {
	opts := []api.Option{
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
	}
	if cfg.Proxy != "" {
		opts = append(opts, api.WithProxy(cfg.Proxy))
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, api.WithHeaders(cfg.Headers))
	}
	client, err := api.NewClient(cfg.BackendURL(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return client, nil
}

// openCache opens the local cache unless it is disabled.
func openCache(cfg *config.Config, logger *slog.Logger) (*database.Cache, error) {
	if cfg.NoCache {
		return nil, nil
	}
	opts := database.DefaultOptions()
	if cfg.Offline {
		opts.CreateIfNotExists = false
	}
	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	logger.Debug("cache opened", "path", db.Path())
	return db, nil
}

// newRenderer returns the renderer configured by cfg.
func newRenderer(cfg *config.Config) *content.Renderer {
	return &content.Renderer{MaxChars: cfg.MaxChars, PageSize: cfg.PageSize}
}

// formatWriter returns the writer for the selected output format.
func formatWriter(cfg *config.Config, w io.Writer, opts ...report.SimpleWriterOption) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(w, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, opts...)
	}
}

// openWriter returns the writer for command output and a function that
// must be called when done. Without --output the selected format goes to
// stdout. With --output the file receives the selected format and stdout
// still gets the human-readable text, unless a machine format was chosen.
func openWriter(cmd *cobra.Command, cfg *config.Config, opts ...report.SimpleWriterOption) (report.Writer, func() error, error) {
	stdout := cmd.OutOrStdout()
	if cfg.ReportFile == "" {
		return formatWriter(cfg, stdout, opts...), func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports can contain extracted credentials; keep them owner-only.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	fileWriter := formatWriter(cfg, f, opts...)
	if cfg.JSONReport || cfg.MarkdownReport {
		return fileWriter, f.Close, nil
	}
	return report.NewMultiWriter(report.NewSimpleWriter(stdout, opts...), fileWriter), f.Close, nil
}

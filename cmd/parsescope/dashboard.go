package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parsescope/parsescope/internal/model"
)

// errConnectionFailed is returned by the health command after the failure
// has been reported.
var errConnectionFailed = errors.New("connection test failed")

// NewDashboardCmd creates the dashboard command.
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show backend health and file statistics",
		Long: `Dashboard shows the backend's health together with the number and total
size of the processed files, broken down by status and by file type.

Health and statistics are fetched concurrently.

Examples:
  parsescope dashboard
  parsescope dashboard --markdown -o reports/dashboard.md`,
		Args: cobra.NoArgs,
		RunE: runDashboardCmd,
	}
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := prepare(cmd, nil)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	dashboard, err := client.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	w, closeFn, err := openWriter(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	_, err = w.WriteDashboard(dashboard)
	return err
}

// NewHealthCmd creates the health command.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Test the connection to the backend",
		Long: `Health calls the backend's /health endpoint and reports whether it answered,
with a hint on how to start the backend when it cannot be reached.

The command exits with status 1 when the test fails.`,
		Args: cobra.NoArgs,
		RunE: runHealthCmd,
	}
}

func runHealthCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := prepare(cmd, nil)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	result := client.TestConnection(ctx)

	w, closeFn, err := openWriter(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := w.WriteConnection(result); err != nil {
		return err
	}
	if !result.OK {
		return errConnectionFailed
	}
	return nil
}

// NewProcessCmd creates the process command.
func NewProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process {all|new}",
		Short: "Trigger backend processing",
		Long: `Process asks the backend to (re)process files.

  all   reprocess every file
  new   process files that have not been processed yet

The backend only enqueues the work; use "parsescope dashboard" or
"parsescope files --status processing" to follow progress.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"all", "new"},
		RunE:      runProcessCmd,
	}
}

func runProcessCmd(cmd *cobra.Command, args []string) error {
	cfg, logger, err := prepare(cmd, nil)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	var result *model.ProcessResult
	switch args[0] {
	case "all":
		result, err = client.ProcessAll(ctx)
	default:
		result, err = client.ProcessNew(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to start processing: %w", err)
	}
	logger.Info("processing requested", "mode", args[0])

	w, closeFn, err := openWriter(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	_, err = w.WriteProcess(result)
	return err
}

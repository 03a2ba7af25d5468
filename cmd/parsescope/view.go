package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parsescope/parsescope/internal/config"
	"github.com/parsescope/parsescope/internal/model"
	"github.com/parsescope/parsescope/internal/pipeline"
	"github.com/parsescope/parsescope/internal/tui"
)

// NewViewCmd creates the interactive view command.
func NewViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file-id> [file-id...]",
		Short: "Browse the content of files interactively",
		Long: `View opens a full-screen viewer over the given files.

Keys:
  up/k, down/j    select a content item
  enter, space    expand or collapse a truncated item
  left/h, right/l previous or next table page (g/G for first and last)
  p, n            previous or next file
  r               reload the current file
  q               quit

Log output goes to stderr; redirect it when using --verbose.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runViewCmd,
	}
	addViewFlags(cmd)
	return cmd
}

// pipelineLoader returns a viewer loader that runs the view pipeline for
// one file.
func pipelineLoader(cfg pipeline.ViewConfig, logger *slog.Logger, opts ...pipeline.Option) tui.Loader {
	return func(ctx context.Context, id int64) (*model.FileView, error) {
		view := model.NewFileView(id)
		p := pipeline.ViewPipeline(cfg, append([]pipeline.Option{pipeline.WithLogger(logger)}, opts...)...)
		if err := p.Execute(ctx, view); err != nil {
			return nil, err
		}
		return view, nil
	}
}

func runViewCmd(cmd *cobra.Command, args []string) error {
	ids, err := parseFileIDs(args)
	if err != nil {
		return err
	}
	cfg, logger, err := prepare(cmd, func(cfg *config.Config) error {
		return applyViewFlags(cmd, cfg)
	})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	renderer := newRenderer(cfg)
	viewCfg := pipeline.ViewConfig{
		Offline:  cfg.Offline,
		Renderer: renderer,
	}
	if !cfg.Offline {
		client, err := newClient(cfg, logger)
		if err != nil {
			return err
		}
		viewCfg.Source = client
	}
	db, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		viewCfg.Store = db
	}

	if err := tui.Run(ctx, pipelineLoader(viewCfg, logger, pipeline.WithStepTimeout(cfg.Timeout)), ids, tui.WithRenderer(renderer)); err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}

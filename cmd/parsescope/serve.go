package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parsescope/parsescope/internal/config"
	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/model"
	"github.com/parsescope/parsescope/internal/pipeline"
	"github.com/parsescope/parsescope/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve classified file views over HTTP",
		Long: `Serve starts a local JSON API that returns classified views of backend
files, so that other tools can use the same content detection.

Routes:
  GET  /healthz                              liveness check
  GET  /files/{id}/view?expand=1,3&page=2    classified view of a file
  GET  /views                                files in the local cache
  POST /classify                             classify a posted blob

The server listens on the loopback interface by default and has no
authentication; do not expose it.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().String("listen", config.DefaultListenAddr, "Address to listen on")
	addViewFlags(cmd)
	return cmd
}

// serveViewFunc returns the view loader of the server. Every request runs
// its own pipeline with the requested windows.
func serveViewFunc(cfg pipeline.ViewConfig, logger *slog.Logger, opts ...pipeline.Option) server.ViewFunc {
	return func(ctx context.Context, id int64, set *content.WindowSet) (*model.FileView, error) {
		reqCfg := cfg
		reqCfg.Windows = func(*model.FileView) *content.WindowSet { return set }

		view := model.NewFileView(id)
		if err := pipeline.ViewPipeline(reqCfg, append([]pipeline.Option{pipeline.WithLogger(logger)}, opts...)...).Execute(ctx, view); err != nil {
			return nil, err
		}
		return view, nil
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := prepare(cmd, func(cfg *config.Config) error {
		if cmd.Flags().Changed("listen") {
			addr, err := cmd.Flags().GetString("listen")
			if err != nil {
				return err
			}
			cfg.ListenAddr = addr
		}
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

	srvCfg := server.Config{
		Addr:     cfg.ListenAddr,
		View:     serveViewFunc(viewCfg, logger, pipeline.WithStepTimeout(cfg.Timeout)),
		Renderer: renderer,
		Version:  getVersion(),
		Logger:   logger,
	}
	if db != nil {
		srvCfg.Cached = db.ListViews
	}

	srv := server.New(srvCfg)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (backend %s)\n", srv.Addr(), cfg.BackendURL())

	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

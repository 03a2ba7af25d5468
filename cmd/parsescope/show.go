package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/parsescope/parsescope/internal/config"
	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/model"
	"github.com/parsescope/parsescope/internal/pipeline"
	"github.com/parsescope/parsescope/internal/report"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <file-id> [file-id...]",
		Short: "Show the extracted content of files",
		Long: `Show fetches files and their extracted content from the backend, detects
what kind of data each content item holds and renders it: JSON documents,
delimited tables, credential lists, key/value records or plain text.

Items longer than --max-chars are truncated unless --expand is given.
Tables are shown one page of --page-size rows at a time; use --page to
pick another page.

Every fetched file is stored in the local cache so it can be shown again
with --offline while the backend is down.

Examples:
  # Show one file
  parsescope show 42

  # Show the third item of file 42 in full, second table page
  parsescope show 42 --item 3 --expand --page 2

  # Show several files, four at a time, as JSON
  parsescope show 42 43 44 --json

  # Reuse cached copies younger than ten minutes
  parsescope show 42 --max-age 10m

  # Read from the cache only
  parsescope show 42 --offline`,
		Args: cobra.MinimumNArgs(1),
		RunE: runShowCmd,
	}

	addViewFlags(cmd)
	cmd.Flags().IntP("item", "i", 0, "Only show this content item (1-based)")
	cmd.Flags().BoolP("expand", "e", false, "Show truncated items in full")
	cmd.Flags().IntP("page", "p", 1, "Table page to show (1-based)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of files loaded concurrently")
	cmd.Flags().Duration("max-age", 0, "Reuse cached views younger than this instead of fetching (0 always fetches)")
	cmd.Flags().Bool("show-empty", false, "List content items without text")

	return cmd
}

// addViewFlags adds the flags shared by show and view.
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("offline", false, "Read files from the local cache only")
	cmd.Flags().Bool("no-cache", false, "Do not read or write the local cache")
	cmd.Flags().Int("max-chars", config.DefaultMaxChars, "Characters shown of a collapsed item")
	cmd.Flags().Int("page-size", config.DefaultPageSize, "Table rows per page")
}

// applyViewFlags copies the shared view flags into cfg. Flags left at
// their defaults do not override the configuration file.
func applyViewFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if cfg.Offline, err = flags.GetBool("offline"); err != nil {
		return err
	}
	if cfg.NoCache, err = flags.GetBool("no-cache"); err != nil {
		return err
	}
	if flags.Changed("max-chars") {
		if cfg.MaxChars, err = flags.GetInt("max-chars"); err != nil {
			return err
		}
	}
	if flags.Changed("page-size") {
		if cfg.PageSize, err = flags.GetInt("page-size"); err != nil {
			return err
		}
	}
	return nil
}

// parseFileIDs converts arguments into backend file IDs.
func parseFileIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid file ID %q: must be a positive integer", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// showOptions holds the display flags of the show command.
type showOptions struct {
	item      int
	expand    bool
	page      int
	maxAge    time.Duration
	showEmpty bool
}

func parseShowFlags(cmd *cobra.Command) (showOptions, error) {
	var o showOptions
	flags := cmd.Flags()
	var err error
	if o.item, err = flags.GetInt("item"); err != nil {
		return o, err
	}
	if o.expand, err = flags.GetBool("expand"); err != nil {
		return o, err
	}
	if o.page, err = flags.GetInt("page"); err != nil {
		return o, err
	}
	if o.maxAge, err = flags.GetDuration("max-age"); err != nil {
		return o, err
	}
	if o.showEmpty, err = flags.GetBool("show-empty"); err != nil {
		return o, err
	}
	if o.item < 0 {
		return o, fmt.Errorf("invalid item %d: must be positive", o.item)
	}
	if o.page < 1 {
		return o, fmt.Errorf("invalid page %d: must be positive", o.page)
	}
	if o.maxAge < 0 {
		return o, fmt.Errorf("invalid max-age %s: must not be negative", o.maxAge)
	}
	return o, nil
}

// windows returns the display windows the options ask for. Only the
// selected item is affected when --item is set.
func (o showOptions) windows(view *model.FileView) *content.WindowSet {
	set := content.NewWindowSet()
	for i := range view.Content {
		if o.item > 0 && i != o.item-1 {
			continue
		}
		w := set.Get(i)
		w.Expanded = o.expand
		w.Page = o.page
	}
	return set
}

// clampPages re-renders table items whose requested page does not exist
// on page 1.
func clampPages(view *model.FileView, o showOptions, renderer *content.Renderer, logger *slog.Logger) {
	if o.page == 1 || len(view.Renderings) != len(view.Content) {
		return
	}
	blobs := view.Blobs()
	for i, r := range view.Renderings {
		if r == nil || r.Page == nil || o.page <= r.Page.TotalPages {
			continue
		}
		if o.item > 0 && i != o.item-1 {
			continue
		}
		logger.Warn("table page out of range, showing page 1",
			"file_id", view.FileID,
			"item", i+1,
			"page", o.page,
			"total_pages", r.Page.TotalPages,
		)
		view.Renderings[i] = renderer.Render(blobs[i], &content.Window{Expanded: o.expand, Page: 1})
	}
}

// selectItem narrows view to the 1-based item. It reports false when the
// file has no such item.
func selectItem(view *model.FileView, item int) (*model.FileView, bool) {
	if item == 0 {
		return view, true
	}
	if item > len(view.Content) {
		return view, false
	}
	narrowed := *view
	narrowed.Content = view.Content[item-1 : item]
	if len(view.Renderings) == len(view.Content) {
		narrowed.Renderings = view.Renderings[item-1 : item]
	}
	return &narrowed, true
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	ids, err := parseFileIDs(args)
	if err != nil {
		return err
	}
	opts, err := parseShowFlags(cmd)
	if err != nil {
		return err
	}

	cfg, logger, err := prepare(cmd, func(cfg *config.Config) error {
		if err := applyViewFlags(cmd, cfg); err != nil {
			return err
		}
		if cmd.Flags().Changed("batch") {
			n, err := cmd.Flags().GetInt("batch")
			if err != nil {
				return err
			}
			cfg.BatchSize = n
		}
		return nil
	})
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	viewCfg := pipeline.ViewConfig{
		Offline:  cfg.Offline,
		MaxAge:   opts.maxAge,
		Renderer: newRenderer(cfg),
		Windows:  opts.windows,
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

	logger.Info("loading files",
		"count", len(ids),
		"offline", cfg.Offline,
		"concurrency", cfg.BatchSize,
	)

	processor := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.ViewPipeline(viewCfg,
				pipeline.WithLogger(logger),
				pipeline.WithContinueOnError(false),
				pipeline.WithStepTimeout(cfg.Timeout),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	completed := 0
	views := make([]*model.FileView, len(ids))
	err = processor.ProcessBatchWithCallback(ctx, ids, func(view *model.FileView, index int) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		views[index] = view
		logger.Debug("file loaded",
			"file_id", view.FileID,
			"source", view.Source,
			"progress", fmt.Sprintf("%d/%d", completed, len(ids)),
		)
	})
	if err != nil && !errors.Is(err, ctx.Err()) {
		return fmt.Errorf("failed to load files: %w", err)
	}

	w, closeFn, err := openWriter(cmd, cfg,
		report.WithShowEmpty(opts.showEmpty),
		report.WithVerbose(cfg.Verbose),
	)
	if err != nil {
		return err
	}
	defer closeFn()

	failed := 0
	for _, view := range views {
		if view == nil {
			continue
		}
		if view.Error != nil {
			failed++
		}
		clampPages(view, opts, viewCfg.Renderer, logger)
		shown, ok := selectItem(view, opts.item)
		if !ok && view.Error == nil {
			logger.Warn("item out of range, showing all items",
				"file_id", view.FileID,
				"item", opts.item,
				"items", len(view.Content),
			)
		}
		if _, err := w.WriteView(shown); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if ctx.Err() != nil {
		return fmt.Errorf("interrupted: %w", ctx.Err())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be loaded", failed, len(ids))
	}
	return nil
}

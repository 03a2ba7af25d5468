package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/parsescope/parsescope/internal/model"
)

// defaultSearchLimit is the number of hits requested by search.
const defaultSearchLimit = 50

// defaultHistoryLimit is the number of past searches listed by history.
const defaultHistoryLimit = 20

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the extracted content",
		Long: `Search runs a full-text search over the extracted content on the backend
and lists the matching files with a preview of the hit.

The query is remembered in the local cache; see "parsescope history".

Examples:
  parsescope search password
  parsescope search "invoice 2024" --limit 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearchCmd,
	}
	cmd.Flags().IntP("limit", "l", defaultSearchLimit, "Maximum number of results")
	cmd.Flags().Bool("no-cache", false, "Do not record the search in the local cache")
	return cmd
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query must not be empty")
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("invalid limit %d: must be positive", limit)
	}

	cfg, logger, err := prepare(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.NoCache, err = cmd.Flags().GetBool("no-cache"); err != nil {
		return err
	}
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	results, err := client.Search(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if results == nil {
		results = []model.SearchResult{}
	}

	// History is best effort; a broken cache must not hide the results.
	db, err := openCache(cfg, logger)
	if err != nil {
		logger.Warn("search not recorded", "error", err)
	} else if db != nil {
		if err := db.RecordSearch(ctx, query, len(results), time.Now()); err != nil {
			logger.Warn("search not recorded", "error", err)
		}
		_ = db.Close()
	}

	w, closeFn, err := openWriter(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	_, err = w.WriteSearch(&model.SearchReport{Query: query, Results: results})
	return err
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches",
		Long: `History lists the searches recorded in the local cache, newest first.

Use --limit 0 to list all of them.`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}
	cmd.Flags().IntP("limit", "l", defaultHistoryLimit, "Maximum number of entries (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must not be negative", limit)
	}

	cfg, logger, err := prepare(cmd, nil)
	if err != nil {
		return err
	}
	db, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.SearchHistory(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []model.SearchHistoryEntry{}
	}

	w, closeFn, err := openWriter(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	_, err = w.WriteHistory(entries)
	return err
}

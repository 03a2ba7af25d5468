package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parsescope/parsescope/internal/api"
	"github.com/parsescope/parsescope/internal/config"
	"github.com/parsescope/parsescope/internal/model"
)

// NewFilesCmd creates the files command.
func NewFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List processed files",
		Long: `Files lists the files known to the backend, newest first.

Examples:
  # First page of all files
  parsescope files

  # Second page of failed files
  parsescope files --status failed --offset 50

  # PDF files only
  parsescope files --type pdf

  # Files extracted from archive 12
  parsescope files --archive 12`,
		Args: cobra.NoArgs,
		RunE: runFilesCmd,
	}

	cmd.Flags().StringP("status", "s", "",
		"Only files with this status (pending, processing, completed, failed)")
	cmd.Flags().StringP("type", "t", "", "Only files of this type, for example pdf or .csv")
	cmd.Flags().Int64P("archive", "a", 0, "Only files extracted from this archive ID")
	cmd.Flags().IntP("limit", "l", config.DefaultListLimit, "Maximum number of files to list")
	cmd.Flags().Int("offset", 0, "Number of files to skip")

	return cmd
}

// filesQuery holds the parsed flags of the files command.
type filesQuery struct {
	status    model.FileStatus
	fileType  string
	archiveID int64
	limit     int
	offset    int
}

func parseFilesFlags(cmd *cobra.Command) (filesQuery, error) {
	var q filesQuery
	flags := cmd.Flags()

	rawStatus, err := flags.GetString("status")
	if err != nil {
		return q, err
	}
	if rawStatus != "" {
		st, ok := model.ParseFileStatus(rawStatus)
		if !ok {
			return q, fmt.Errorf("unknown status %q (expected one of pending, processing, completed, failed)", rawStatus)
		}
		q.status = st
	}
	if q.fileType, err = flags.GetString("type"); err != nil {
		return q, err
	}
	if q.archiveID, err = flags.GetInt64("archive"); err != nil {
		return q, err
	}
	if q.limit, err = flags.GetInt("limit"); err != nil {
		return q, err
	}
	if q.offset, err = flags.GetInt("offset"); err != nil {
		return q, err
	}
	if q.limit <= 0 {
		return q, fmt.Errorf("invalid limit %d: must be positive", q.limit)
	}
	if q.offset < 0 {
		return q, fmt.Errorf("invalid offset %d: must not be negative", q.offset)
	}
	return q, nil
}

// title describes the filter of q.
func (q filesQuery) title() string {
	switch {
	case q.archiveID > 0:
		return fmt.Sprintf("Files from archive %d", q.archiveID)
	case q.fileType != "":
		return fmt.Sprintf("Files (type: %s)", strings.TrimPrefix(q.fileType, "."))
	case q.status != "":
		return fmt.Sprintf("Files (status: %s)", q.status)
	default:
		return "Files"
	}
}

func runFilesCmd(cmd *cobra.Command, _ []string) error {
	q, err := parseFilesFlags(cmd)
	if err != nil {
		return err
	}
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

	var files []model.File
	switch {
	case q.archiveID > 0:
		files, err = client.ArchiveFiles(ctx, q.archiveID)
	case q.fileType != "":
		files, err = client.FilesByType(ctx, q.fileType, q.limit)
	case q.status != "" && q.offset == 0:
		files, err = client.FilesByStatus(ctx, q.status, q.limit)
	default:
		files, err = client.Files(ctx, api.FileQuery{Status: q.status, Limit: q.limit, Offset: q.offset})
	}
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	listing := &model.FileListing{
		Title:  q.title(),
		Files:  files,
		Offset: q.offset,
		Limit:  q.limit,
	}
	if listing.Files == nil {
		listing.Files = []model.File{}
	}

	w, closeFn, err := openWriter(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	_, err = w.WriteListing(listing)
	return err
}

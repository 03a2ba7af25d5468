package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/parsescope/parsescope/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "parsescope.db"

// ErrDigestMismatch is returned when a cached view's content no longer
// matches the digest stored with it.
var ErrDigestMismatch = errors.New("cached content does not match its digest")

// Cache provides SQLite-based storage for fetched file views and the
// search history.
type Cache struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Cache behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Cache in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Cache, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &Cache{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := c.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return c, nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (c *Cache) createTables() error {
	schema := `
	-- One row per file: the last fetched metadata and content items
	CREATE TABLE IF NOT EXISTS views (
		file_id INTEGER PRIMARY KEY,
		filename TEXT NOT NULL DEFAULT '',
		digest TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		file_json TEXT,
		content_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_views_fetched ON views(fetched_at);

	-- Search history, newest last
	CREATE TABLE IF NOT EXISTS searches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		results INTEGER NOT NULL DEFAULT 0,
		searched_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_searches_at ON searches(searched_at);
	`

	_, err := c.db.ExecContext(context.Background(), schema)
	return err
}

// SaveView stores the metadata and content items of view, replacing any
// earlier entry for the same file. It reports whether the content differs
// from what was cached before. Renderings are not stored; they are
// recomputed on load.
func (c *Cache) SaveView(ctx context.Context, view *model.FileView) (bool, error) {
	digest := view.Digest
	if digest == "" {
		digest = model.DigestContent(view.Content)
	}

	var fileJSON sql.NullString
	filename := ""
	if view.File != nil {
		data, err := json.Marshal(view.File)
		if err != nil {
			return false, fmt.Errorf("failed to serialize file: %w", err)
		}
		fileJSON = sql.NullString{String: string(data), Valid: true}
		filename = view.File.Filename
	}

	contentJSON, err := json.Marshal(view.Content)
	if err != nil {
		return false, fmt.Errorf("failed to serialize content: %w", err)
	}

	fetchedAt := view.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var previous string
	err = tx.QueryRowContext(ctx, `SELECT digest FROM views WHERE file_id = ?`, view.FileID).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to read cached digest: %w", err)
	}

	query := `
	INSERT INTO views (file_id, filename, digest, fetched_at, file_json, content_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(file_id) DO UPDATE SET
		filename = excluded.filename,
		digest = excluded.digest,
		fetched_at = excluded.fetched_at,
		file_json = excluded.file_json,
		content_json = excluded.content_json
	`
	_, err = tx.ExecContext(ctx, query,
		view.FileID,
		filename,
		digest,
		formatTimestamp(fetchedAt),
		fileJSON,
		string(contentJSON),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save view: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit view: %w", err)
	}
	return previous != digest, nil
}

// LoadView returns the cached view of file id, or nil if none is stored.
// The returned view has Source set to model.SourceCache and keeps the
// original fetch time. A view whose content no longer matches its digest
// yields ErrDigestMismatch.
func (c *Cache) LoadView(ctx context.Context, id int64) (*model.FileView, error) {
	query := `
	SELECT digest, fetched_at, file_json, content_json
	FROM views
	WHERE file_id = ?
	`

	var (
		digest      string
		fetchedAt   string
		fileJSON    sql.NullString
		contentJSON string
	)
	err := c.db.QueryRowContext(ctx, query, id).Scan(&digest, &fetchedAt, &fileJSON, &contentJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view: %w", err)
	}

	view := model.NewFileView(id)
	if fileJSON.Valid && fileJSON.String != "" {
		var f model.File
		if err := json.Unmarshal([]byte(fileJSON.String), &f); err != nil {
			return nil, fmt.Errorf("failed to parse file: %w", err)
		}
		view.File = &f
	}
	if err := json.Unmarshal([]byte(contentJSON), &view.Content); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if view.Content == nil {
		view.Content = make([]model.ContentRecord, 0)
	}

	view.ComputeDigest()
	if view.Digest != digest {
		return nil, fmt.Errorf("file %d: %w", id, ErrDigestMismatch)
	}
	view.Source = model.SourceCache
	view.FetchedAt = parseTimestamp(fetchedAt)

	return view, nil
}

// HasRecentView reports whether file id was fetched within maxAge.
func (c *Cache) HasRecentView(ctx context.Context, id int64, maxAge time.Duration) (bool, error) {
	var fetchedAt string
	err := c.db.QueryRowContext(ctx, `SELECT fetched_at FROM views WHERE file_id = ?`, id).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check recent view: %w", err)
	}
	t := parseTimestamp(fetchedAt)
	return !t.IsZero() && time.Since(t) <= maxAge, nil
}

// CachedView summarizes a cached entry without loading its content.
type CachedView struct {
	FileID    int64     `json:"file_id"`
	Filename  string    `json:"filename"`
	Digest    string    `json:"digest"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ListViews returns the cached entries, most recently fetched first.
func (c *Cache) ListViews(ctx context.Context) ([]CachedView, error) {
	query := `
	SELECT file_id, filename, digest, fetched_at
	FROM views
	ORDER BY fetched_at DESC, file_id
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var results []CachedView
	for rows.Next() {
		var v CachedView
		var fetchedAt string
		if err := rows.Scan(&v.FileID, &v.Filename, &v.Digest, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		v.FetchedAt = parseTimestamp(fetchedAt)
		results = append(results, v)
	}

	return results, rows.Err()
}

// RecordSearch appends a search to the history. Blank queries are ignored.
func (c *Cache) RecordSearch(ctx context.Context, query string, results int, at time.Time) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if at.IsZero() {
		at = time.Now()
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO searches (query, results, searched_at) VALUES (?, ?, ?)`,
		query, results, formatTimestamp(at),
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// SearchHistory returns up to limit past searches, newest first. A
// non-positive limit returns all of them.
func (c *Cache) SearchHistory(ctx context.Context, limit int) ([]model.SearchHistoryEntry, error) {
	query := `
	SELECT id, query, results, searched_at
	FROM searches
	ORDER BY searched_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get search history: %w", err)
	}
	defer rows.Close()

	var entries []model.SearchHistoryEntry
	for rows.Next() {
		var e model.SearchHistoryEntry
		var searchedAt string
		if err := rows.Scan(&e.ID, &e.Query, &e.Results, &searchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		e.SearchedAt = parseTimestamp(searchedAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// storedTimestamp is the layout written by the cache. It sorts
// lexicographically in time order.
const storedTimestamp = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimestamp)
}

// timestampFormats contains the timestamp formats that may be read back.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimestamp,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

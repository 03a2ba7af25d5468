package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/parsescope/parsescope/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultListLimit is the limit used by the by-status, by-type and search
// endpoints when none is given.
const DefaultListLimit = 100

// FileQuery filters GET /files. Zero values are omitted from the request.
type FileQuery struct {
	Status model.FileStatus
	Limit  int
	Offset int
}

func (q FileQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

func limitValues(limit int) url.Values {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

func idPath(prefix string, id int64, suffix string) (string, error) {
	if id <= 0 {
		return "", ErrInvalidID
	}
	return prefix + strconv.FormatInt(id, 10) + suffix, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*model.Health, error) {
	var h model.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Root calls GET / and returns the service information object.
func (c *Client) Root(ctx context.Context) (model.ServiceInfo, error) {
	var info model.ServiceInfo
	if err := c.do(ctx, http.MethodGet, "/", nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// Stats calls GET /stats.
func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var s model.Stats
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Dashboard fetches stats and health concurrently. Either failure fails the
// whole call.
func (c *Client) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var d model.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := c.Stats(gctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		d.Stats = s
		return nil
	})
	g.Go(func() error {
		h, err := c.Health(gctx)
		if err != nil {
			return fmt.Errorf("health: %w", err)
		}
		d.Health = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Files calls GET /files.
func (c *Client) Files(ctx context.Context, q FileQuery) ([]model.File, error) {
	var files []model.File
	if err := c.do(ctx, http.MethodGet, "/files", q.values(), &files); err != nil {
		return nil, err
	}
	return files, nil
}

// File calls GET /files/{id} and returns the metadata with all content items.
func (c *Client) File(ctx context.Context, id int64) (*model.FileDetail, error) {
	path, err := idPath("/files/", id, "")
	if err != nil {
		return nil, err
	}
	var d model.FileDetail
	if err := c.do(ctx, http.MethodGet, path, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// FileContent calls GET /files/{id}/content.
func (c *Client) FileContent(ctx context.Context, id int64) ([]model.ContentRecord, error) {
	path, err := idPath("/files/", id, "/content")
	if err != nil {
		return nil, err
	}
	var items []model.ContentRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FilesByStatus calls GET /files/by-status/{status}. A non-positive limit
// means DefaultListLimit.
func (c *Client) FilesByStatus(ctx context.Context, status model.FileStatus, limit int) ([]model.File, error) {
	var files []model.File
	path := "/files/by-status/" + url.PathEscape(string(status))
	if err := c.do(ctx, http.MethodGet, path, limitValues(limit), &files); err != nil {
		return nil, err
	}
	return files, nil
}

// FilesByType calls GET /files/by-type/{type}. A leading dot on fileType is
// stripped, so ".csv" and "csv" are equivalent.
func (c *Client) FilesByType(ctx context.Context, fileType string, limit int) ([]model.File, error) {
	var files []model.File
	path := "/files/by-type/" + url.PathEscape(strings.TrimPrefix(fileType, "."))
	if err := c.do(ctx, http.MethodGet, path, limitValues(limit), &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Search calls GET /search.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	v := limitValues(limit)
	v.Set("query", query)

	var results []model.SearchResult
	if err := c.do(ctx, http.MethodGet, "/search", v, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ArchiveFiles calls GET /archives/{id}/files.
func (c *Client) ArchiveFiles(ctx context.Context, archiveID int64) ([]model.File, error) {
	path, err := idPath("/archives/", archiveID, "/files")
	if err != nil {
		return nil, err
	}
	var files []model.File
	if err := c.do(ctx, http.MethodGet, path, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// ProcessAll calls POST /process/all.
func (c *Client) ProcessAll(ctx context.Context) (*model.ProcessResult, error) {
	return c.process(ctx, "/process/all")
}

// ProcessNew calls POST /process/new.
func (c *Client) ProcessNew(ctx context.Context) (*model.ProcessResult, error) {
	return c.process(ctx, "/process/new")
}

func (c *Client) process(ctx context.Context, path string) (*model.ProcessResult, error) {
	var r model.ProcessResult
	if err := c.do(ctx, http.MethodPost, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

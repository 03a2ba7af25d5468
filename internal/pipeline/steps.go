package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/model"
)

// ErrNotCached is returned by CacheLoadStep when the file has no cached view.
var ErrNotCached = errors.New("file is not in the local cache")

// FileSource fetches a file's metadata and content items. *api.Client
// implements it.
type FileSource interface {
	File(ctx context.Context, id int64) (*model.FileDetail, error)
}

// ViewStore persists fetched views. *database.Cache implements it.
type ViewStore interface {
	LoadView(ctx context.Context, id int64) (*model.FileView, error)
	SaveView(ctx context.Context, view *model.FileView) (bool, error)
	HasRecentView(ctx context.Context, id int64, maxAge time.Duration) (bool, error)
}

// FetchStep loads the file and its content items from the backend.
type FetchStep struct {
	source FileSource
	now    func() time.Time
	logger *slog.Logger
}

// NewFetchStep creates a step that fetches from source.
func NewFetchStep(source FileSource, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{source: source, now: time.Now, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step. A view already filled from the cache is left
// alone.
func (s *FetchStep) Do(ctx context.Context, view *model.FileView) error {
	if view.Source == model.SourceCache {
		return nil
	}
	detail, err := s.source.File(ctx, view.FileID)
	if err != nil {
		return fmt.Errorf("fetch file %d: %w", view.FileID, err)
	}

	file := detail.File
	view.File = &file
	view.Content = detail.Content
	if view.Content == nil {
		view.Content = make([]model.ContentRecord, 0)
	}
	view.Source = model.SourceBackend
	view.FetchedAt = s.now()

	s.logger.Debug("file fetched",
		"file_id", view.FileID,
		"filename", file.Filename,
		"items", len(view.Content),
	)
	return nil
}

// DigestStep computes the content digest of the view.
type DigestStep struct{}

// NewDigestStep creates a digest step.
func NewDigestStep() *DigestStep {
	return &DigestStep{}
}

// Name returns the step name.
func (s *DigestStep) Name() string {
	return "digest"
}

// Do executes the digest step.
func (s *DigestStep) Do(_ context.Context, view *model.FileView) error {
	view.ComputeDigest()
	return nil
}

// CacheLoadStep replaces the view with the cached copy of the file.
type CacheLoadStep struct {
	store  ViewStore
	logger *slog.Logger
}

// NewCacheLoadStep creates a step that reads from store.
func NewCacheLoadStep(store ViewStore, logger *slog.Logger) *CacheLoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheLoadStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *CacheLoadStep) Name() string {
	return "cache_load"
}

// Do executes the cache load step. A missing entry yields ErrNotCached.
func (s *CacheLoadStep) Do(ctx context.Context, view *model.FileView) error {
	if s.store == nil {
		return fmt.Errorf("file %d: %w", view.FileID, ErrNotCached)
	}
	cached, err := s.store.LoadView(ctx, view.FileID)
	if err != nil {
		return fmt.Errorf("load cached file %d: %w", view.FileID, err)
	}
	if cached == nil {
		return fmt.Errorf("file %d: %w", view.FileID, ErrNotCached)
	}

	view.File = cached.File
	view.Content = cached.Content
	view.Digest = cached.Digest
	view.Source = cached.Source
	view.FetchedAt = cached.FetchedAt

	s.logger.Debug("file loaded from cache",
		"file_id", view.FileID,
		"fetched_at", cached.FetchedAt,
	)
	return nil
}

// FreshCacheStep fills the view from the cache when the cached copy is
// younger than maxAge, so that the fetch step is skipped.
type FreshCacheStep struct {
	load   *CacheLoadStep
	maxAge time.Duration
}

// NewFreshCacheStep creates a step that reuses cached views younger than
// maxAge.
func NewFreshCacheStep(store ViewStore, maxAge time.Duration, logger *slog.Logger) *FreshCacheStep {
	return &FreshCacheStep{load: NewCacheLoadStep(store, logger), maxAge: maxAge}
}

// Name returns the step name.
func (s *FreshCacheStep) Name() string {
	return "cache_fresh"
}

// Do executes the fresh cache step. A missing or stale entry is not an
// error.
func (s *FreshCacheStep) Do(ctx context.Context, view *model.FileView) error {
	if s.load.store == nil || s.maxAge <= 0 {
		return nil
	}
	fresh, err := s.load.store.HasRecentView(ctx, view.FileID, s.maxAge)
	if err != nil {
		return fmt.Errorf("check cached file %d: %w", view.FileID, err)
	}
	if !fresh {
		return nil
	}
	return s.load.Do(ctx, view)
}

// CacheSaveStep stores the view so it can be inspected offline.
type CacheSaveStep struct {
	store  ViewStore
	logger *slog.Logger
}

// NewCacheSaveStep creates a step that writes to store.
func NewCacheSaveStep(store ViewStore, logger *slog.Logger) *CacheSaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheSaveStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *CacheSaveStep) Name() string {
	return "cache_save"
}

// Do executes the cache save step. Views that were not fetched from the
// backend are not written back.
func (s *CacheSaveStep) Do(ctx context.Context, view *model.FileView) error {
	if view.Source != model.SourceBackend {
		return nil
	}
	changed, err := s.store.SaveView(ctx, view)
	if err != nil {
		return fmt.Errorf("cache file %d: %w", view.FileID, err)
	}
	s.logger.Debug("file cached",
		"file_id", view.FileID,
		"changed", changed,
	)
	return nil
}

// ClassifyStep classifies and renders every content item of the view.
type ClassifyStep struct {
	renderer *content.Renderer
	windows  func(view *model.FileView) *content.WindowSet
}

// ClassifyStepOption configures a ClassifyStep.
type ClassifyStepOption func(*ClassifyStep)

// WithWindows sets the function that supplies display windows per file. It
// is called after the content is loaded. Without it every item renders
// collapsed on page 1.
func WithWindows(windows func(view *model.FileView) *content.WindowSet) ClassifyStepOption {
	return func(s *ClassifyStep) {
		s.windows = windows
	}
}

// NewClassifyStep creates a classify step using renderer. A nil renderer
// uses the default limits.
func NewClassifyStep(renderer *content.Renderer, opts ...ClassifyStepOption) *ClassifyStep {
	if renderer == nil {
		renderer = content.NewRenderer()
	}
	s := &ClassifyStep{renderer: renderer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classify step.
func (s *ClassifyStep) Do(_ context.Context, view *model.FileView) error {
	var set *content.WindowSet
	if s.windows != nil {
		set = s.windows(view)
	}
	view.Renderings = s.renderer.RenderAll(view.Blobs(), set)
	return nil
}

// ViewConfig selects the steps of a view pipeline.
type ViewConfig struct {
	// Source fetches from the backend. It is ignored when Offline is set.
	Source FileSource

	// Store is the local cache. Nil disables caching.
	Store ViewStore

	// Offline reads from Store instead of the backend.
	Offline bool

	// MaxAge reuses cached views younger than this instead of fetching.
	// Zero always fetches. It needs a Store.
	MaxAge time.Duration

	// Renderer bounds truncation and page size.
	Renderer *content.Renderer

	// Windows supplies per-file display windows.
	Windows func(view *model.FileView) *content.WindowSet
}

// ViewPipeline builds the pipeline that produces a classified view:
//
//	online:  [cache_fresh,] fetch, digest, cache_save (with a store), classify
//	offline: cache_load, classify
func ViewPipeline(cfg ViewConfig, opts ...Option) *Pipeline {
	p := New(opts...)

	if cfg.Offline {
		p.AddStep(NewCacheLoadStep(cfg.Store, p.logger))
	} else {
		if cfg.Store != nil && cfg.MaxAge > 0 {
			p.AddStep(NewFreshCacheStep(cfg.Store, cfg.MaxAge, p.logger))
		}
		p.AddSteps(NewFetchStep(cfg.Source, p.logger), NewDigestStep())
		if cfg.Store != nil {
			p.AddStep(NewCacheSaveStep(cfg.Store, p.logger))
		}
	}

	var classifyOpts []ClassifyStepOption
	if cfg.Windows != nil {
		classifyOpts = append(classifyOpts, WithWindows(cfg.Windows))
	}
	p.AddStep(NewClassifyStep(cfg.Renderer, classifyOpts...))

	return p
}

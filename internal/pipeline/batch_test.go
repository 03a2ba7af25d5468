package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/parsescope/parsescope/internal/model"
)

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("returns views in input order", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{files: map[int64]*model.FileDetail{
			1: testDetail(1),
			2: testDetail(2),
			3: testDetail(3),
		}}
		bp := NewBatchProcessor(func() *Pipeline {
			return ViewPipeline(ViewConfig{Source: src})
		}, WithConcurrency(2))

		ids := []int64{3, 1, 2}
		views, err := bp.ProcessBatch(context.Background(), ids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(views) != len(ids) {
			t.Fatalf("expected %d views, got %d", len(ids), len(views))
		}
		for i, v := range views {
			if v.FileID != ids[i] {
				t.Errorf("index %d: expected file %d, got %d", i, ids[i], v.FileID)
			}
			if len(v.Renderings) != 2 {
				t.Errorf("index %d: expected 2 renderings, got %d", i, len(v.Renderings))
			}
		}
	})

	t.Run("records failures without aborting the batch", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{files: map[int64]*model.FileDetail{1: testDetail(1)}}
		bp := NewBatchProcessor(func() *Pipeline {
			return ViewPipeline(ViewConfig{Source: src})
		})

		views, err := bp.ProcessBatch(context.Background(), []int64{1, 99})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if views[0].Error != nil {
			t.Errorf("expected file 1 to succeed, got %v", views[0].Error)
		}
		if views[1].Error == nil {
			t.Error("expected file 99 to record an error")
		}
	})

	t.Run("limits concurrency", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		slow := func(_ context.Context, _ *model.FileView) error {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return nil
		}
		bp := NewBatchProcessor(func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{name: "slow", doFunc: slow})
			return p
		}, WithConcurrency(2))

		if _, err := bp.ProcessBatch(context.Background(), []int64{1, 2, 3, 4, 5, 6}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := peak.Load(); got > 2 {
			t.Errorf("expected at most 2 concurrent loads, got %d", got)
		}
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		views, err := bp.ProcessBatch(ctx, []int64{1, 2})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		for i, v := range views {
			if v != nil {
				t.Errorf("index %d: expected nil view, got %+v", i, v)
			}
		}
	})
}

func TestBatchProcessorCallback(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen = make(map[int]int64)
	)
	bp := NewBatchProcessor(func() *Pipeline { return New() })
	err := bp.ProcessBatchWithCallback(context.Background(), []int64{10, 20}, func(view *model.FileView, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = view.FileID
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen[0] != 10 || seen[1] != 20 {
		t.Errorf("expected {0:10 1:20}, got %v", seen)
	}
}

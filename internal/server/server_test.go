package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/parsescope/parsescope/internal/api"
	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/database"
	"github.com/parsescope/parsescope/internal/model"
	"github.com/parsescope/parsescope/internal/pipeline"
)

func csvRows(n int) string {
	var sb strings.Builder
	sb.WriteString("id,name\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "%d,row-%d\n", i, i)
	}
	return sb.String()
}

// fakeView classifies a fixed two-item file under the given windows.
func fakeView(_ context.Context, id int64, windows *content.WindowSet) (*model.FileView, error) {
	switch id {
	case 404:
		return nil, &api.Error{StatusCode: http.StatusNotFound, Message: "File not found"}
	case 500:
		return nil, fmt.Errorf("fetch file 500: %w", api.ErrUnreachable)
	case 900:
		return nil, fmt.Errorf("file 900: %w", pipeline.ErrNotCached)
	}
	v := model.NewFileView(id)
	v.File = &model.File{ID: id, Filename: "data.csv"}
	v.Content = []model.ContentRecord{
		{Content: csvRows(120), ContentType: "csv"},
		{Content: strings.Repeat("y", 3000), ContentType: "text"},
	}
	v.Renderings = content.NewRenderer().RenderAll(v.Blobs(), windows)
	return v, nil
}

type viewBody struct {
	Version string `json:"version"`
	View    struct {
		FileID     int64 `json:"file_id"`
		Renderings []struct {
			Kind      string `json:"kind"`
			Expanded  bool   `json:"expanded"`
			Truncated bool   `json:"truncated"`
			Page      *struct {
				Page       int `json:"page"`
				TotalPages int `json:"total_pages"`
			} `json:"page"`
		} `json:"renderings"`
	} `json:"view"`
}

func newTestServer() *Server {
	return New(Config{View: fakeView, Version: "test"})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	w := do(t, newTestServer().Handler(), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("expected {\"status\":\"ok\"}, got %s", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}

func TestFileView(t *testing.T) {
	t.Parallel()

	t.Run("default windows", func(t *testing.T) {
		t.Parallel()

		w := do(t, newTestServer().Handler(), http.MethodGet, "/files/7/view", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var body viewBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Version != "test" || body.View.FileID != 7 {
			t.Errorf("expected version test and file 7, got %q and %d", body.Version, body.View.FileID)
		}
		if len(body.View.Renderings) != 2 {
			t.Fatalf("expected 2 renderings, got %d", len(body.View.Renderings))
		}
		if p := body.View.Renderings[0].Page; p == nil || p.Page != 1 || p.TotalPages != 3 {
			t.Errorf("expected page 1 of 3, got %+v", p)
		}
		if !body.View.Renderings[1].Truncated {
			t.Error("expected item 1 to be truncated")
		}
	})

	t.Run("expand and page parameters", func(t *testing.T) {
		t.Parallel()

		w := do(t, newTestServer().Handler(), http.MethodGet, "/files/7/view?expand=1&page=0:3", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var body viewBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if p := body.View.Renderings[0].Page; p == nil || p.Page != 3 {
			t.Errorf("expected page 3, got %+v", p)
		}
		if r := body.View.Renderings[1]; !r.Expanded || r.Truncated {
			t.Errorf("expected item 1 expanded, got %+v", r)
		}
	})

	t.Run("payload holds one page of rows", func(t *testing.T) {
		t.Parallel()

		w := do(t, newTestServer().Handler(), http.MethodGet, "/files/7/view?page=0:2", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var body struct {
			View struct {
				Renderings []struct {
					Result struct {
						Rows [][]string `json:"rows"`
					} `json:"result"`
					Page struct {
						Rows []struct {
							Number int `json:"number"`
						} `json:"rows"`
					} `json:"page"`
				} `json:"renderings"`
			} `json:"view"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		table := body.View.Renderings[0]
		if len(table.Result.Rows) != 0 {
			t.Errorf("expected no rows in result, got %d", len(table.Result.Rows))
		}
		if len(table.Page.Rows) != 50 || table.Page.Rows[0].Number != 51 {
			t.Errorf("expected rows 51-100, got %d rows", len(table.Page.Rows))
		}
	})

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{name: "non-numeric id", target: "/files/abc/view", want: http.StatusBadRequest},
		{name: "zero id", target: "/files/0/view", want: http.StatusBadRequest},
		{name: "bad expand", target: "/files/1/view?expand=x", want: http.StatusBadRequest},
		{name: "bad page", target: "/files/1/view?page=3", want: http.StatusBadRequest},
		{name: "backend not found", target: "/files/404/view", want: http.StatusNotFound},
		{name: "not cached", target: "/files/900/view", want: http.StatusNotFound},
		{name: "backend unreachable", target: "/files/500/view", want: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(t, newTestServer().Handler(), http.MethodGet, tt.target, "")
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			var e errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Error == "" {
				t.Errorf("expected JSON error body, got %s", w.Body.String())
			}
		})
	}

	t.Run("no view source", func(t *testing.T) {
		t.Parallel()

		w := do(t, New(Config{}).Handler(), http.MethodGet, "/files/1/view", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected status 503, got %d", w.Code)
		}
	})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		code  int
		kind  string
		badge string
	}{
		{
			name:  "csv",
			body:  `{"content":"a,b,c\n1,2,3\n4,5,6","content_type":"csv"}`,
			code:  http.StatusOK,
			kind:  "table",
			badge: "TABLE DATA (2 rows × 3 cols)",
		},
		{
			name:  "credentials",
			body:  `{"content":"user1:pass1\nuser2:pass2\nuser3:pass3"}`,
			code:  http.StatusOK,
			kind:  "credentials",
			badge: "CREDENTIALS (3 entries)",
		},
		{
			name:  "escaped newlines",
			body:  `{"content":"name: Alice\\nage: 30\\ncity: NYC"}`,
			code:  http.StatusOK,
			kind:  "keyvalue",
			badge: "STRUCTURED DATA (3 fields)",
		},
		{
			name:  "json",
			body:  `{"content":"{\"a\":[1,2]}"}`,
			code:  http.StatusOK,
			kind:  "json",
			badge: "JSON",
		},
		{name: "empty content", body: `{"content":""}`, code: http.StatusBadRequest},
		{name: "malformed body", body: `{`, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(t, newTestServer().Handler(), http.MethodPost, "/classify", tt.body)
			if w.Code != tt.code {
				t.Fatalf("expected status %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			var got struct {
				Kind  string `json:"kind"`
				Badge string `json:"badge"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Kind != tt.kind || got.Badge != tt.badge {
				t.Errorf("expected %s %q, got %s %q", tt.kind, tt.badge, got.Kind, got.Badge)
			}
		})
	}

	t.Run("expanded long text", func(t *testing.T) {
		t.Parallel()

		body := fmt.Sprintf(`{"content":%q,"expanded":true}`, strings.Repeat("z", 5000))
		w := do(t, newTestServer().Handler(), http.MethodPost, "/classify", body)
		var got struct {
			Expandable bool `json:"expandable"`
			Truncated  bool `json:"truncated"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !got.Expandable || got.Truncated {
			t.Errorf("expected expandable and not truncated, got %+v", got)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()

		w := do(t, newTestServer().Handler(), http.MethodGet, "/classify", "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", w.Code)
		}
	})
}

func TestCachedViews(t *testing.T) {
	t.Parallel()

	fetched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(Config{
		View: fakeView,
		Cached: func(context.Context) ([]database.CachedView, error) {
			return []database.CachedView{{FileID: 3, Filename: "a.txt", Digest: "abc", FetchedAt: fetched}}, nil
		},
	})

	w := do(t, s.Handler(), http.MethodGet, "/views", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var got []database.CachedView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []database.CachedView{{FileID: 3, Filename: "a.txt", Digest: "abc", FetchedAt: fetched}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("views mismatch (-want +got):\n%s", diff)
	}

	if w := do(t, newTestServer().Handler(), http.MethodGet, "/views", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a cache, got %d", w.Code)
	}
}

func TestParseWindows(t *testing.T) {
	t.Parallel()

	set, err := ParseWindows("0, 2,", "1:4,2:2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int{0, 2}, set.Expanded()); diff != "" {
		t.Errorf("expanded mismatch (-want +got):\n%s", diff)
	}
	if got := set.Get(1).Page; got != 4 {
		t.Errorf("expected page 4, got %d", got)
	}
	if got := set.Get(2).Page; got != 2 {
		t.Errorf("expected page 2, got %d", got)
	}

	for _, tt := range []struct{ expand, page string }{
		{"-1", ""},
		{"", "a:1"},
		{"", "1:0"},
		{"", "1"},
	} {
		if _, err := ParseWindows(tt.expand, tt.page); !errors.Is(err, ErrBadWindow) {
			t.Errorf("ParseWindows(%q, %q): expected ErrBadWindow, got %v", tt.expand, tt.page, err)
		}
	}
}

func TestServe(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := newTestServer()
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	if got := New(Config{}).Addr(); got != DefaultAddr {
		t.Errorf("expected %s, got %s", DefaultAddr, got)
	}
}

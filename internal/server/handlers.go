package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/parsescope/parsescope/internal/api"
	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/database"
	"github.com/parsescope/parsescope/internal/pipeline"
	"github.com/parsescope/parsescope/internal/report"
)

// maxClassifyBody bounds the size of a /classify request body.
const maxClassifyBody = 16 << 20

// ErrBadWindow is returned for malformed expand or page parameters.
var ErrBadWindow = errors.New("invalid window parameter")

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	// Expanded classifies the whole content instead of the first
	// characters.
	Expanded bool `json:"expanded"`
	// Page selects the table page, 1-based.
	Page int `json:"page"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, api.ErrInvalidID.Error())
		return
	}

	windows, err := ParseWindows(r.URL.Query().Get("expand"), r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.view == nil {
		writeError(w, http.StatusServiceUnavailable, "no view source configured")
		return
	}

	view, err := s.view(r.Context(), id, windows)
	if err != nil {
		s.logger.Warn("view failed", "file_id", id, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &report.ViewReport{Version: s.version, View: view})
}

func (s *Server) handleCachedViews(w http.ResponseWriter, r *http.Request) {
	views, err := s.cached(r.Context())
	if err != nil {
		s.logger.Warn("listing cache failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if views == nil {
		views = []database.CachedView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxClassifyBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	window := content.NewWindow()
	window.Expanded = req.Expanded
	if req.Page > 0 {
		window.Page = req.Page
	}

	rendering := s.renderer.Render(content.NewBlob(req.Content, req.ContentType, 0), window)
	writeJSON(w, http.StatusOK, rendering)
}

// ParseWindows builds display windows from the expand and page query
// values. expand is a comma-separated list of item indexes; page is a
// comma-separated list of index:page pairs. Empty values are allowed.
func ParseWindows(expand, page string) (*content.WindowSet, error) {
	set := content.NewWindowSet()

	for _, field := range splitList(expand) {
		i, err := strconv.Atoi(field)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: expand %q", ErrBadWindow, field)
		}
		set.Get(i).Expanded = true
	}

	for _, field := range splitList(page) {
		idx, p, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("%w: page %q, expected index:page", ErrBadWindow, field)
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: page %q", ErrBadWindow, field)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: page %q", ErrBadWindow, field)
		}
		set.Get(i).Page = n
	}

	return set, nil
}

func splitList(s string) []string {
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// statusFor maps a view error to an HTTP status.
func statusFor(err error) int {
	var apiErr *api.Error
	switch {
	case errors.Is(err, api.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNotCached):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

package model

import "sort"

// Stats is the response of GET /stats.
type Stats struct {
	TotalFiles        int            `json:"total_files"`
	FilesFromArchives int            `json:"files_from_archives"`
	TotalSize         int64          `json:"total_size"`
	ByStatus          map[string]int `json:"by_status"`
	ByType            map[string]int `json:"by_type"`
}

// Count is one bucket of a breakdown.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatusCounts returns ByStatus ordered by count, largest first.
func (s *Stats) StatusCounts() []Count {
	return sortedCounts(s.ByStatus)
}

// TypeCounts returns ByType ordered by count, largest first.
func (s *Stats) TypeCounts() []Count {
	return sortedCounts(s.ByType)
}

// sortedCounts orders by descending count, then by name, so output is
// stable across runs.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Health is the response of GET /health.
type Health struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// IsHealthy reports whether the backend declared itself healthy.
func (h *Health) IsHealthy() bool {
	return h.Status == "healthy"
}

// ServiceInfo is the free-form object returned by GET /.
type ServiceInfo map[string]any

// ProcessResult is the response of the processing endpoints.
type ProcessResult struct {
	Message string `json:"message"`
}

// DefaultProcessMessage is shown when the backend accepted a job without
// saying anything.
const DefaultProcessMessage = "Processing started successfully"

// Text returns Message, or DefaultProcessMessage when it is empty.
func (p *ProcessResult) Text() string {
	if p.Message == "" {
		return DefaultProcessMessage
	}
	return p.Message
}

// Dashboard combines the two responses fetched for the dashboard.
type Dashboard struct {
	Stats  *Stats  `json:"stats"`
	Health *Health `json:"health"`
}

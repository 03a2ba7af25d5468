package api

import (
	"context"

	"github.com/parsescope/parsescope/internal/model"
)

// ConnectionHelp is shown when the connection test fails.
const ConnectionHelp = "Make sure the FastAPI server is running at this address. Start it with: uvicorn server:app --reload"

// ConnectionResult is the outcome of TestConnection.
type ConnectionResult struct {
	OK      bool          `json:"ok"`
	BaseURL string        `json:"base_url"`
	Message string        `json:"message"`
	Health  *model.Health `json:"health,omitempty"`
	Error   string        `json:"error,omitempty"`
	Help    string        `json:"help,omitempty"`
}

// TestConnection calls GET /health and describes the result for humans.
// It never returns an error; failures are reported in the result.
func (c *Client) TestConnection(ctx context.Context) *ConnectionResult {
	res := &ConnectionResult{BaseURL: c.BaseURL()}

	h, err := c.Health(ctx)
	if err != nil {
		res.Message = "Connection failed"
		res.Help = ConnectionHelp
		if IsUnreachable(err) {
			res.Error = "Cannot reach server. Is it running?"
		} else {
			res.Error = err.Error()
		}
		return res
	}

	res.OK = true
	res.Health = h
	res.Message = "Connection successful! Server is " + h.Status
	return res
}

// Package serverapi is the HTTP client for the management server's REST API.
// It is used outside the hot command path: linking, settings sync, and
// anything else the control channel does not carry.
package serverapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/printwatch/printer-agent/pkg/errstats"
	"github.com/printwatch/printer-agent/pkg/identity"
	"github.com/printwatch/printer-agent/pkg/version"
)

const logPrefix = "serverapi:client"

// statsSource is the errstats bucket for management-server calls.
const statsSource = "server"

// Client calls the management server REST API with token auth.
type Client struct {
	baseURL   string
	authToken string
	http      *http.Client
	stats     *errstats.Tracker
}

// NewClient creates a Client for the given endpoint prefix. A nil stats
// tracker disables error-rate accounting.
func NewClient(baseURL, authToken string, stats *errstats.Tracker) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		http:      &http.Client{Timeout: 30 * time.Second},
		stats:     stats,
	}
}

// Request performs one API call. body, when non-nil, is JSON encoded.
// Transport failures and server-side (5xx) statuses are recorded as
// connection errors; an unauthorized response is not, since that signals a
// bad token rather than a bad connection.
func (c *Client) Request(ctx context.Context, method, uri string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s - failed to encode request body: %w", logPrefix, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+uri, reader)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to build request: %w", logPrefix, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Token "+c.authToken)
	}

	if c.stats != nil {
		c.stats.Attempt(statsSource)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if c.stats != nil {
			c.stats.ConnectionError(statsSource)
		}
		return nil, fmt.Errorf("%s - %s %s: %w", logPrefix, method, uri, err)
	}
	if resp.StatusCode >= 500 {
		if c.stats != nil {
			c.stats.ConnectionError(statsSource)
		}
	}
	return resp, nil
}

// CheckStatus returns an error for non-2xx responses, folding the response
// body into the message. The body is consumed either way.
func CheckStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("%s - %s returned %d: %s", logPrefix, resp.Request.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
}

// linkedPrinterResponse is the wire shape of the printer-link endpoint.
type linkedPrinterResponse struct {
	Printer         *identity.Printer `json:"printer"`
	MinAgentVersion string            `json:"min_agent_version,omitempty"`
}

// LinkedPrinter fetches the printer this agent's token is linked to. Returns
// (nil, nil) when the token is valid but not linked yet. Logs a warning when
// the server advertises a minimum agent version this build does not meet.
func (c *Client) LinkedPrinter(ctx context.Context) (*identity.Printer, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/api/v1/agent/printer/", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s - link check returned %d: %s", logPrefix, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded linkedPrinterResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%s - failed to decode link response: %w", logPrefix, err)
	}

	if decoded.MinAgentVersion != "" {
		ok, err := version.MeetsMinimum(version.Agent, decoded.MinAgentVersion)
		if err != nil {
			slog.Warn(fmt.Sprintf("%s - could not compare agent version: %v", logPrefix, err))
		} else if !ok {
			slog.Warn(fmt.Sprintf("%s - agent %s is below server minimum %s, update recommended",
				logPrefix, version.Agent, decoded.MinAgentVersion))
		}
	}

	return decoded.Printer, nil
}

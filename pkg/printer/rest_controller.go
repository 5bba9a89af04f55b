package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const restLogPrefix = "printer:rest_controller"

// RESTController drives the local print server's REST API (OctoPrint wire
// format). It runs on the same host as the print server, so a short timeout
// is enough.
type RESTController struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewRESTController creates a controller for the print server at baseURL.
func NewRESTController(baseURL, apiKey string) *RESTController {
	return &RESTController{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetTemperature sets the target temperature of a heater. Heater "bed" maps
// to the bed endpoint; anything else is treated as a tool.
func (c *RESTController) SetTemperature(ctx context.Context, heater string, target float64) error {
	if heater == "bed" {
		return c.post(ctx, "/api/printer/bed", map[string]interface{}{
			"command": "target",
			"target":  target,
		})
	}
	return c.post(ctx, "/api/printer/tool", map[string]interface{}{
		"command": "target",
		"targets": map[string]float64{heater: target},
	})
}

// Pause pauses the current job.
func (c *RESTController) Pause(ctx context.Context) error {
	return c.post(ctx, "/api/job", map[string]interface{}{"command": "pause", "action": "pause"})
}

// Resume resumes a paused job.
func (c *RESTController) Resume(ctx context.Context) error {
	return c.post(ctx, "/api/job", map[string]interface{}{"command": "pause", "action": "resume"})
}

// Cancel cancels the current job.
func (c *RESTController) Cancel(ctx context.Context) error {
	return c.post(ctx, "/api/job", map[string]interface{}{"command": "cancel"})
}

// Home homes the given axes.
func (c *RESTController) Home(ctx context.Context, axes []string) error {
	return c.post(ctx, "/api/printer/printhead", map[string]interface{}{
		"command": "home",
		"axes":    axes,
	})
}

// Jog moves the printhead by the given distances per axis.
func (c *RESTController) Jog(ctx context.Context, distances map[string]float64) error {
	body := map[string]interface{}{"command": "jog"}
	for axis, d := range distances {
		body[axis] = d
	}
	return c.post(ctx, "/api/printer/printhead", body)
}

func (c *RESTController) post(ctx context.Context, uri string, body map[string]interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s - failed to encode body: %w", restLogPrefix, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uri, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s - failed to build request: %w", restLogPrefix, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s - %s: %w", restLogPrefix, uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s - %s returned %d: %s", restLogPrefix, uri, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

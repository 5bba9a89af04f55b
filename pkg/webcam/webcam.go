// Package webcam fetches snapshots from the local webcam streamer and
// reports what they contain, for remote inspection of the camera setup.
package webcam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/printwatch/printer-agent/pkg/capability"
	"github.com/printwatch/printer-agent/pkg/imageinfo"
)

const logPrefix = "webcam:webcam"

// maxSnapshotBytes caps how much of a snapshot is read. Headers sit in the
// first few hundred bytes but JPEG dimension markers can appear later.
const maxSnapshotBytes = 1 << 20

// Client fetches snapshots from a fixed streamer URL.
type Client struct {
	snapshotURL string
	http        *http.Client
}

// NewClient creates a Client for the streamer at snapshotURL.
func NewClient(snapshotURL string) *Client {
	return &Client{
		snapshotURL: snapshotURL,
		http:        &http.Client{Timeout: 5 * time.Second},
	}
}

// SnapshotInfo downloads one snapshot and sniffs its header. Returns the
// sniffed info and the number of bytes read.
func (c *Client) SnapshotInfo(ctx context.Context) (imageinfo.Info, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.snapshotURL, nil)
	if err != nil {
		return imageinfo.Info{}, 0, fmt.Errorf("%s - failed to build request: %w", logPrefix, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return imageinfo.Info{}, 0, fmt.Errorf("%s - snapshot fetch: %w", logPrefix, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return imageinfo.Info{}, 0, fmt.Errorf("%s - snapshot fetch returned %d", logPrefix, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return imageinfo.Info{}, 0, fmt.Errorf("%s - snapshot read: %w", logPrefix, err)
	}
	return imageinfo.Sniff(data), len(data), nil
}

// Group exposes the client as a capability group with a snapshot_info
// operation reporting content type, dimensions, and byte size.
func Group(c *Client) capability.FuncGroup {
	return capability.FuncGroup{
		"snapshot_info": func(ctx context.Context, _ []interface{}) (interface{}, error) {
			info, size, err := c.SnapshotInfo(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"content_type": info.ContentType,
				"width":        info.Width,
				"height":       info.Height,
				"bytes":        size,
			}, nil
		},
	}
}

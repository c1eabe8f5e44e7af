package terrorzone

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/wdjwxh/d2rtz-bot/logging"
	"github.com/wdjwxh/d2rtz-bot/metrics"
)

// cacheWindow bounds how long a cached rotation payload stays fresh. The
// payload is additionally invalid once the wall clock crosses into the next
// calendar hour, because the rotation itself changes on the hour.
const cacheWindow = 30 * time.Minute

// RotationEntry is one zone in the upstream rotation feed. Time is the unix
// timestamp at which the zone leaves (or entered) the rotation.
type RotationEntry struct {
	Zone int     `json:"zone"`
	Time float64 `json:"time"`
}

// Rotation is the raw payload of the rotation API.
type Rotation struct {
	Data []RotationEntry `json:"data"`
}

// Client fetches the Terror Zone rotation, consulting a single-file cache
// before going to the network.
type Client struct {
	BaseURL    string
	CachePath  string
	HTTPClient *http.Client
	logger     *logging.Logger
}

// NewClient builds a rotation client. cachePath may be relative to the
// working directory; the file is created on the first successful fetch.
func NewClient(baseURL, cachePath string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		BaseURL:   baseURL,
		CachePath: cachePath,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchRotation returns the current rotation payload. A cache file written
// within the validity window is served without a network call; otherwise the
// API is queried and the raw body overwrites the cache.
func (c *Client) FetchRotation(ctx context.Context) (*Rotation, error) {
	if rot, ok := c.readCache(); ok {
		metrics.RotationCacheHitCount.Add(1)
		return rot, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rotation request")
	}
	req.Header.Set("User-Agent", "d2rtz-bot/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.RotationFetchFailCount.Add(1)
		return nil, errors.Wrap(err, "failed to reach rotation API")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RotationFetchFailCount.Add(1)
		return nil, errors.Errorf("rotation API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RotationFetchFailCount.Add(1)
		return nil, errors.Wrap(err, "failed to read rotation response")
	}

	var rot Rotation
	if err := json.Unmarshal(body, &rot); err != nil {
		metrics.RotationFetchFailCount.Add(1)
		return nil, errors.Wrap(err, "failed to decode rotation response")
	}

	metrics.RotationFetchCount.Add(1)
	c.writeCache(body)
	return &rot, nil
}

// readCache returns the cached payload when the cache file exists and is
// still valid. Any read or decode problem is treated as a miss.
func (c *Client) readCache() (*Rotation, bool) {
	if c.CachePath == "" {
		return nil, false
	}
	info, err := os.Stat(c.CachePath)
	if err != nil {
		return nil, false
	}
	if !cacheValid(info.ModTime(), time.Now()) {
		return nil, false
	}

	body, err := os.ReadFile(c.CachePath)
	if err != nil {
		return nil, false
	}
	var rot Rotation
	if err := json.Unmarshal(body, &rot); err != nil {
		c.logger.Warn("discarding unreadable rotation cache", "path", c.CachePath, "error", err.Error())
		return nil, false
	}
	return &rot, true
}

// writeCache persists the raw API body verbatim. Failures only cost a future
// refetch, so they are logged and swallowed.
func (c *Client) writeCache(body []byte) {
	if c.CachePath == "" {
		return
	}
	if err := os.WriteFile(c.CachePath, body, 0o644); err != nil {
		c.logger.Warn("failed to write rotation cache", "path", c.CachePath, "error", err.Error())
	}
}

// cacheValid reports whether a payload written at written is still usable at
// now: both times in the same calendar hour and less than the window apart.
// The same-hour rule means a write at :59 expires a minute later.
func cacheValid(written, now time.Time) bool {
	if now.Before(written) {
		return false
	}
	if now.Sub(written) >= cacheWindow {
		return false
	}
	return written.Truncate(time.Hour).Equal(now.Truncate(time.Hour))
}

// Package datadragon fetches the public champion catalog, used to turn
// champion ids into names for consumers and history records.
package datadragon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Champion is one catalog entry.
type Champion struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

// LatestVersion returns the newest published data version.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := c.getJSON(ctx, "/api/versions.json", &versions); err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("catalog returned no versions")
	}
	return versions[0], nil
}

// Champions fetches the catalog for a version, keyed by numeric champion id.
func (c *Client) Champions(ctx context.Context, version string) (map[int]Champion, error) {
	var payload struct {
		Data map[string]struct {
			Key   string   `json:"key"`
			Name  string   `json:"name"`
			Title string   `json:"title"`
			Tags  []string `json:"tags"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/cdn/%s/data/en_US/champion.json", version)
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	out := make(map[int]Champion, len(payload.Data))
	for _, entry := range payload.Data {
		// Key is the numeric id as a string; Data's map keys are slugs.
		id, err := strconv.Atoi(entry.Key)
		if err != nil {
			c.log.Warn("skipping champion with non-numeric key", zap.String("key", entry.Key))
			continue
		}
		out[id] = Champion{ID: id, Name: entry.Name, Title: entry.Title, Tags: entry.Tags}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

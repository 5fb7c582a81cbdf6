// Package catalog retrieves the movie catalog from the upstream API and
// keeps a local snapshot so the channel can rebuild its schedule while the
// upstream is unreachable.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"marquee/internal/logger"
	"marquee/internal/models"
)

const (
	fetchAttempts   = 3
	fetchRetryDelay = 500 * time.Millisecond
)

// movieEntry matches the upstream catalog API wire format
type movieEntry struct {
	TmdbID          string `json:"tmdb_id"`
	Title           string `json:"title"`
	TorrentHash     string `json:"torrent_hash"`
	ResourceIndex   int    `json:"resource_index"`
	DurationSeconds int64  `json:"duration,omitempty"`
}

// Client fetches the catalog over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client for the given base URL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the full catalog, retrying transient failures. The catalog
// order defines air order, so entries are returned exactly as the upstream
// lists them, with positions assigned in sequence. A failed fetch returns an
// error and no partial data.
func (c *Client) Fetch(ctx context.Context) ([]models.CatalogItem, error) {
	var entries []movieEntry

	err := retry.Do(
		func() error {
			return c.fetchOnce(ctx, &entries)
		},
		retry.Context(ctx),
		retry.Attempts(fetchAttempts),
		retry.Delay(fetchRetryDelay),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Log.Warn().
				Err(err).
				Uint("attempt", attempt+1).
				Msg("Catalog fetch failed, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(entries))
	for i, entry := range entries {
		item := models.NewCatalogItem(entry.TmdbID, entry.Title, entry.DurationSeconds, i)
		item.TorrentHash = entry.TorrentHash
		item.ResourceIndex = entry.ResourceIndex
		items = append(items, *item)
	}

	logger.Log.Info().
		Int("item_count", len(items)).
		Msg("Catalog fetched")

	return items, nil
}

func (c *Client) fetchOnce(ctx context.Context, entries *[]movieEntry) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/movies", nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog request returned status %d", resp.StatusCode)
	}

	var decoded []movieEntry
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}

	*entries = decoded
	return nil
}

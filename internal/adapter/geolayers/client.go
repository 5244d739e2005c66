// Package geolayers is an HTTP adapter for a geographic layer distance
// service. For a given location it reports, per named layer, the distance in
// kilometers to that layer's polygon (0 when the point is inside).
package geolayers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/quakemetrics/gmpe-select/internal/observability"
)

// Client implements domain.LayerDistancer against the layer service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a layer distance client for the given service base URL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// LayerDistances returns the distance from (lat, lon) to every layer the
// service knows about, keyed by layer name.
func (c *Client) LayerDistances(ctx context.Context, lat, lon float64) (map[string]float64, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/distances?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.LayerLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("layer distance request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.LayerLookups.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("layer service error: status %d: %s", resp.StatusCode, body)
	}

	var distances map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&distances); err != nil {
		c.metrics.LayerLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.metrics.LayerLookups.WithLabelValues("success").Inc()
	return distances, nil
}

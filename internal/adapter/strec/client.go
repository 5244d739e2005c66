// Package strec is an HTTP adapter for a STREC-like tectonic classification
// service. The service owns all geometry and slab-model logic; this client
// only transports its answer into the domain model.
package strec

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

	"github.com/quakemetrics/gmpe-select/internal/domain"
	"github.com/quakemetrics/gmpe-select/internal/observability"
)

// Client implements domain.TectonicClassifier against a STREC-like HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a classification client for the given service base URL.
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

// Classify looks up the tectonic-region classification for an origin.
func (c *Client) Classify(ctx context.Context, origin domain.Origin) (domain.Classification, error) {
	params := url.Values{
		"lat":   {formatFloat(origin.Lat)},
		"lon":   {formatFloat(origin.Lon)},
		"depth": {formatFloat(origin.Depth)},
		"mag":   {formatFloat(origin.Magnitude)},
	}
	if m := origin.Mechanism; m != nil {
		params.Set("strike1", formatFloat(m.NP1.Strike))
		params.Set("dip1", formatFloat(m.NP1.Dip))
		params.Set("rake1", formatFloat(m.NP1.Rake))
		params.Set("strike2", formatFloat(m.NP2.Strike))
		params.Set("dip2", formatFloat(m.NP2.Dip))
		params.Set("rake2", formatFloat(m.NP2.Rake))
	}

	start := time.Now()
	cls, err := c.doRequest(ctx, c.baseURL+"/classify?"+params.Encode())
	c.metrics.ClassifyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ClassifyRequests.WithLabelValues("error").Inc()
		return domain.Classification{}, err
	}
	c.metrics.ClassifyRequests.WithLabelValues("success").Inc()
	return cls, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Classification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Classification{}, fmt.Errorf("classification API error: status %d: %s", resp.StatusCode, body)
	}

	var strecResp response
	if err := json.NewDecoder(resp.Body).Decode(&strecResp); err != nil {
		return domain.Classification{}, fmt.Errorf("decode response: %w", err)
	}

	cls := domain.Classification{
		DistanceToActive:     strecResp.DistanceToActive,
		DistanceToStable:     strecResp.DistanceToStable,
		DistanceToVolcanic:   strecResp.DistanceToVolcanic,
		DistanceToSubduction: strecResp.DistanceToSubduction,
		KaganAngle:           strecResp.KaganAngle,
	}
	if strecResp.SlabModelDepth != nil {
		cls.HasSlabModel = true
		cls.SlabDepth = *strecResp.SlabModelDepth
		if strecResp.SlabModelDepthUncertainty != nil {
			cls.SlabDepthUncertainty = *strecResp.SlabModelDepthUncertainty
		}
		if strecResp.SlabModelMaximumDepth != nil {
			cls.MaxInterfaceDepth = *strecResp.SlabModelMaximumDepth
		}
	}
	return cls, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// response mirrors the STREC output field names. Slab fields are null where
// no slab model is defined at the location; KaganAngle is null when the
// event has no moment tensor.
type response struct {
	TectonicRegion            string   `json:"TectonicRegion"`
	DistanceToActive          float64  `json:"DistanceToActive"`
	DistanceToStable          float64  `json:"DistanceToStable"`
	DistanceToVolcanic        float64  `json:"DistanceToVolcanic"`
	DistanceToSubduction      float64  `json:"DistanceToSubduction"`
	SlabModelDepth            *float64 `json:"SlabModelDepth"`
	SlabModelDepthUncertainty *float64 `json:"SlabModelDepthUncertainty"`
	SlabModelMaximumDepth     *float64 `json:"SlabModelMaximumDepth"`
	KaganAngle                *float64 `json:"KaganAngle"`
}

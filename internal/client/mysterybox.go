// Package client talks to the mystery box service over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
	"github.com/Dffarhn/recyle-food-mobile/pkg/httpclient"
)

const serviceName = "mysterybox"

// MysteryBoxClient fetches mystery box records from the service API.
type MysteryBoxClient struct {
	baseURL string
	http    httpclient.Doer
	logger  *slog.Logger
}

// NewMysteryBoxClient creates a client rooted at baseURL, e.g.
// "http://localhost:8080". Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy doer.
func NewMysteryBoxClient(baseURL string, doer httpclient.Doer, logger *slog.Logger) *MysteryBoxClient {
	return &MysteryBoxClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		logger:  logger,
	}
}

type detailResponse struct {
	Data *domain.MysteryBox `json:"data"`
}

// FetchMysteryBoxDetails returns the box with its restaurant distance
// measured from loc.
func (c *MysteryBoxClient) FetchMysteryBoxDetails(ctx context.Context, id string, loc domain.Coordinates) (*domain.MysteryBox, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("mystery box id is required")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	target := fmt.Sprintf("%s/api/v1/mystery-boxes/%s?%s", c.baseURL, url.PathEscape(id), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create detail request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call mystery box service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}

	var body detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode detail response: %w", err)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("mystery box service returned no data for %s", id)
	}

	c.logger.DebugContext(ctx, "mystery box details fetched",
		slog.String("mystery_box_id", id),
		slog.Int("products", len(body.Data.Products)),
	)
	return body.Data, nil
}

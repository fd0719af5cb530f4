// Package location provides the device position used to measure distances
// to restaurants. Providers never fail loudly: an undeterminable location is
// reported as absent.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
	"github.com/Dffarhn/recyle-food-mobile/pkg/httpclient"
)

// Provider reports the device location; ok is false when it is unknown.
type Provider interface {
	UserLocation(ctx context.Context) (loc domain.Coordinates, ok bool)
}

// Static always reports the same position. The zero value reports absent.
type Static struct {
	loc domain.Coordinates
	set bool
}

// NewStatic returns a provider fixed at lat/lng. Pointers left nil make the
// provider report absent, as do out-of-range coordinates.
func NewStatic(lat, lng *float64) Static {
	if lat == nil || lng == nil {
		return Static{}
	}
	loc := domain.Coordinates{Latitude: *lat, Longitude: *lng}
	if loc.Validate() != nil {
		return Static{}
	}
	return Static{loc: loc, set: true}
}

func (s Static) UserLocation(context.Context) (domain.Coordinates, bool) {
	return s.loc, s.set
}

// IPLocator estimates the location from the public IP address using an
// ipapi.co compatible JSON endpoint.
type IPLocator struct {
	endpoint string
	http     httpclient.Doer
	logger   *slog.Logger
}

// NewIPLocator creates a locator querying endpoint, e.g. "https://ipapi.co/json/".
func NewIPLocator(endpoint string, doer httpclient.Doer, logger *slog.Logger) *IPLocator {
	return &IPLocator{endpoint: endpoint, http: doer, logger: logger}
}

type ipLookupResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// UserLocation performs the lookup. Every failure is logged and reported as
// absent.
func (l *IPLocator) UserLocation(ctx context.Context) (domain.Coordinates, bool) {
	loc, err := l.lookup(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "ip geolocation failed",
			slog.String("endpoint", l.endpoint),
			slog.String("error", err.Error()),
		)
		return domain.Coordinates{}, false
	}
	return loc, true
}

func (l *IPLocator) lookup(ctx context.Context) (domain.Coordinates, error) {
	resp, err := l.http.Get(ctx, l.endpoint)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("call geolocation endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, httpclient.ParseResponseError(resp, "geolocation")
	}

	var body ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geolocation response: %w", err)
	}
	if body.Error {
		return domain.Coordinates{}, fmt.Errorf("geolocation lookup rejected: %s", body.Reason)
	}
	if body.Latitude == nil || body.Longitude == nil {
		return domain.Coordinates{}, fmt.Errorf("geolocation response has no coordinates")
	}

	loc := domain.Coordinates{Latitude: *body.Latitude, Longitude: *body.Longitude}
	if err := loc.Validate(); err != nil {
		return domain.Coordinates{}, err
	}
	return loc, nil
}

// Chain asks each provider in turn; the first known location wins.
type Chain []Provider

func (c Chain) UserLocation(ctx context.Context) (domain.Coordinates, bool) {
	for _, p := range c {
		if loc, ok := p.UserLocation(ctx); ok {
			return loc, true
		}
	}
	return domain.Coordinates{}, false
}

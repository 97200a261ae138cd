package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	wrap "github.com/quickeats/courier-client/pkg/logger/wrapper"
)

// Client fetches driving routes from an OSRM-compatible endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lng, lat] pairs
		} `json:"geometry"`
	} `json:"routes"`
}

// Route returns the routed leg between two coordinates, or
// types.ErrRouteUnavailable when OSRM has no route. Invalid coordinates
// are rejected before any request is made.
func (c *Client) Route(ctx context.Context, start, end models.Location) (*models.RouteLeg, error) {
	const op = "osrm.Route"

	if !start.Valid() || !end.Valid() {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrInvalidLocation))
	}

	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL,
		start.Longitude, start.Latitude,
		end.Longitude, end.Latitude,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: failed to make request to OSRM: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: failed to decode OSRM response: %w", op, err))
	}

	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return nil, wrap.Error(ctx, types.ErrRouteUnavailable)
	}

	best := payload.Routes[0]
	geometry := make([]models.Location, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		geometry = append(geometry, models.Location{
			Latitude:  pair[1],
			Longitude: pair[0],
		})
	}

	if len(geometry) < 2 {
		return nil, wrap.Error(ctx, types.ErrRouteUnavailable)
	}

	return &models.RouteLeg{
		Geometry:        geometry,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}

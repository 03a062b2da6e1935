// Package mapquest provides geocoding and driving distance through the MapQuest API.
package mapquest

import (
	"context"
	"errors"
	"time"

	"github.com/tournevent/freightbench/pkg/geo"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrNoResults is returned when a lookup succeeds but yields no candidate.
var ErrNoResults = errors.New("no results")

// Config holds MapQuest configuration.
type Config struct {
	APIKey  string
	BaseURL string
	UseMock bool
}

// Client converts MapQuest responses into coordinates and mileage.
type Client struct {
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a MapQuest client, using the mock API client when cfg.UseMock is set.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: 10 * time.Second,
		})
	}
	return NewWithAPIClient(apiClient, logger, tracer)
}

// NewWithAPIClient creates a client around a custom API client.
func NewWithAPIClient(apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if tracer == nil {
		tracer = otel.Tracer("github.com/tournevent/freightbench/pkg/mapquest")
	}
	return &Client{
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Coordinate geocodes a location to its first candidate.
func (c *Client) Coordinate(ctx context.Context, location string) (geo.Coordinate, error) {
	ctx, span := c.tracer.Start(ctx, "mapquest.Geocode",
		trace.WithAttributes(attribute.String("location", location)))
	defer span.End()

	resp, err := c.apiClient.Geocode(ctx, location)
	if err != nil {
		return geo.Coordinate{}, c.fail(ctx, span, "geocode", err)
	}
	if resp.Info.StatusCode != 0 {
		return geo.Coordinate{}, c.fail(ctx, span, "geocode", statusError(resp.Info))
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Locations) == 0 {
		return geo.Coordinate{}, c.fail(ctx, span, "geocode", ErrNoResults)
	}

	ll := resp.Results[0].Locations[0].LatLng
	coord := geo.Coordinate{Lat: ll.Lat, Lon: ll.Lng}
	if err := coord.Validate(); err != nil {
		return geo.Coordinate{}, c.fail(ctx, span, "geocode", err)
	}
	return coord, nil
}

// DrivingMiles returns the road distance reported by the directions API.
func (c *Client) DrivingMiles(ctx context.Context, from, to string) (float64, error) {
	ctx, span := c.tracer.Start(ctx, "mapquest.Route",
		trace.WithAttributes(attribute.String("from", from), attribute.String("to", to)))
	defer span.End()

	resp, err := c.apiClient.Route(ctx, from, to)
	if err != nil {
		return 0, c.fail(ctx, span, "route", err)
	}
	if resp.Info.StatusCode != 0 {
		return 0, c.fail(ctx, span, "route", statusError(resp.Info))
	}
	if resp.Route.Distance < 0 {
		return 0, c.fail(ctx, span, "route", ErrNoResults)
	}
	return resp.Route.Distance, nil
}

func (c *Client) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Ctx(ctx).Warn("MapQuest lookup failed", zap.String("operation", op), zap.Error(err))
	return err
}

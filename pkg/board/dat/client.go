// Package dat provides integration with the DAT load board rate lookups.
package dat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tournevent/freightbench/pkg/board"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const boardName = "DAT"

// Config holds DAT configuration.
type Config struct {
	APIKey  string
	BaseURL string
	UseMock bool // When true, uses mock API client
}

// Client is the DAT board client.
// It implements the board.Board interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new DAT client.
// If cfg.UseMock is true, it uses a mock API client.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: 30 * time.Second,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new DAT client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if tracer == nil {
		tracer = otel.Tracer("github.com/tournevent/freightbench/pkg/board/dat")
	}
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the board name.
func (c *Client) Name() string {
	return boardName
}

// Scope returns the board scope. DAT only covers North American truckload lanes.
func (c *Client) Scope() board.Scope {
	return board.ScopeDomestic
}

// GetRate returns the DAT average spot rate for the lane.
func (c *Client) GetRate(ctx context.Context, req *board.RateRequest) (*board.Quote, error) {
	ctx, span := c.tracer.Start(ctx, "dat.GetRate", trace.WithAttributes(
		attribute.String("origin", req.Origin),
		attribute.String("destination", req.Destination),
	))
	defer span.End()

	c.logger.Ctx(ctx).Info("Getting DAT rate",
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.Int("mileage", req.Mileage),
	)

	apiReq := &RatesRequest{
		Lanes: []LaneRequest{{
			Origin:      placeFromLocation(req.Origin),
			Destination: placeFromLocation(req.Destination),
			Equipment:   equipmentToAPI(req.Equipment),
			RateType:    "SPOT",
		}},
	}

	apiResp, err := c.apiClient.LookupRates(ctx, apiReq)
	if err != nil {
		span.RecordError(err)
		c.logger.Ctx(ctx).Error("DAT API error", zap.Error(err))
		return nil, toBoardError(err)
	}

	if len(apiResp.Lanes) == 0 {
		return nil, board.NewBoardError(boardName, "EMPTY_RESPONSE", "no lane in response").
			WithCause(board.ErrLaneNotCovered)
	}
	lane := apiResp.Lanes[0]
	if lane.Error != nil {
		return nil, laneError(lane.Error)
	}
	if lane.Rate == nil || lane.Rate.PerMileUSD < 0 {
		return nil, board.NewBoardError(boardName, "NO_DATA", "no rate for lane").
			WithCause(board.ErrLaneNotCovered)
	}

	return &board.Quote{
		Board:       boardName,
		AverageRate: lane.Rate.PerMileUSD,
		Unit:        board.UnitPerMile,
		Currency:    "USD",
		RetrievedAt: time.Now(),
	}, nil
}

// ============================================================================
// Conversion helpers
// ============================================================================

// placeFromLocation splits "city, code" composites; a bare value is a postal code.
func placeFromLocation(loc string) Place {
	loc = strings.TrimSpace(loc)
	if i := strings.LastIndex(loc, ","); i >= 0 {
		return Place{
			City:       strings.TrimSpace(loc[:i]),
			PostalCode: strings.TrimSpace(loc[i+1:]),
		}
	}
	return Place{PostalCode: loc}
}

func equipmentToAPI(e board.Equipment) string {
	switch e {
	case board.EquipmentReefer:
		return "REEFER"
	case board.EquipmentFlatbed:
		return "FLATBED"
	default:
		return "VAN"
	}
}

func laneError(apiErr *APIError) error {
	err := board.NewBoardError(boardName, apiErr.Code, apiErr.Message)
	if apiErr.Code == "NO_DATA" {
		err.WithCause(board.ErrLaneNotCovered)
	}
	return err
}

func toBoardError(err error) error {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		be := board.NewBoardError(boardName, statusErr.Code, statusErr.Message).
			WithStatusCode(statusErr.StatusCode)
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			be.WithCause(board.ErrAuthenticationFailed)
		case statusErr.StatusCode == http.StatusTooManyRequests:
			be.WithCause(board.ErrRateLimitExceeded)
		case statusErr.StatusCode >= 500:
			be.WithCause(board.ErrServiceUnavailable)
		}
		return be
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return board.NewBoardError(boardName, apiErr.Code, apiErr.Message)
	}
	return board.NewBoardError(boardName, "API_ERROR", "rate lookup failed").WithCause(err)
}

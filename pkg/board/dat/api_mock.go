package dat

import (
	"context"
	"time"
)

// SimulatedRate is the per-mile rate returned by the mock client.
const SimulatedRate = 2.60

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnLookupRates func(ctx context.Context, req *RatesRequest) (*RatesResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// LookupRates returns SimulatedRate for every lane.
func (m *MockAPIClient) LookupRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}

	if m.OnLookupRates != nil {
		return m.OnLookupRates(ctx, req)
	}

	lanes := make([]LaneRate, len(req.Lanes))
	for i := range req.Lanes {
		lanes[i] = LaneRate{Rate: &Rate{
			PerMileUSD:              SimulatedRate,
			FuelSurchargePerMileUSD: 0.42,
			Reports:                 118,
			Companies:               41,
			Timeframe:               "7_DAYS",
		}}
	}
	return &RatesResponse{Lanes: lanes}, nil
}

var _ APIClient = (*MockAPIClient)(nil)

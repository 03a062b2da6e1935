package dat

import (
	"context"
)

// APIClient defines the interface for DAT rate lookups.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// LookupRates fetches spot rates for one or more lanes.
	LookupRates(ctx context.Context, req *RatesRequest) (*RatesResponse, error)
}

// ============================================================================
// API Request/Response Types (match DAT linehaul rates v1 lookups)
// ============================================================================

// RatesRequest represents a rate lookup.
// POST /linehaulrates/v1/lookups
type RatesRequest struct {
	Lanes []LaneRequest `json:"lanes"`
}

// LaneRequest describes one lane to price.
type LaneRequest struct {
	Origin      Place  `json:"origin"`
	Destination Place  `json:"destination"`
	Equipment   string `json:"equipment"` // "VAN", "REEFER", "FLATBED"
	RateType    string `json:"rateType"`  // "SPOT", "CONTRACT"
}

// Place is a lane endpoint. Either PostalCode or City must be set.
type Place struct {
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
}

// RatesResponse carries one entry per requested lane, in request order.
type RatesResponse struct {
	Lanes []LaneRate `json:"lanes"`
}

// LaneRate is either a rate or an error for a lane.
type LaneRate struct {
	Rate  *Rate     `json:"rate,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// Rate is the average spot rate observed on a lane.
type Rate struct {
	PerMileUSD              float64 `json:"perMileRateUsd"` // all-in, fuel included
	FuelSurchargePerMileUSD float64 `json:"averageFuelSurchargePerMileUsd"`
	Mileage                 float64 `json:"mileage"`
	Reports                 int     `json:"reports"`
	Companies               int     `json:"companies"`
	Timeframe               string  `json:"timeframe,omitempty"` // e.g. "7_DAYS"
}

// APIError represents an error from the DAT API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

package mapquest

import (
	"context"
	"fmt"
)

// APIClient defines the MapQuest operations used for mileage estimation.
// The HTTP implementation talks to the live API; the mock serves a
// small built-in gazetteer for tests and local development.
type APIClient interface {
	// Geocode resolves a free-form location (zip, "city, zip") to candidates.
	Geocode(ctx context.Context, location string) (*GeocodeResponse, error)

	// Route requests driving directions between two free-form locations.
	Route(ctx context.Context, from, to string) (*RouteResponse, error)
}

// ============================================================================
// API Request/Response Types (match MapQuest v1 geocoding / v2 directions)
// ============================================================================

// Info is the status envelope present on every MapQuest response.
// A non-zero StatusCode means the request failed even if HTTP returned 200.
type Info struct {
	StatusCode int      `json:"statuscode"`
	Messages   []string `json:"messages,omitempty"`
}

// GeocodeResponse is returned by GET /geocoding/v1/address.
type GeocodeResponse struct {
	Info    Info            `json:"info"`
	Results []GeocodeResult `json:"results"`
}

// GeocodeResult groups the candidates for one provided location.
type GeocodeResult struct {
	ProvidedLocation ProvidedLocation `json:"providedLocation"`
	Locations        []Location       `json:"locations"`
}

// ProvidedLocation echoes the query.
type ProvidedLocation struct {
	Location string `json:"location"`
}

// Location is a single geocoding candidate.
type Location struct {
	LatLng         LatLng `json:"latLng"`
	PostalCode     string `json:"postalCode,omitempty"`
	City           string `json:"adminArea5,omitempty"`
	State          string `json:"adminArea3,omitempty"`
	Country        string `json:"adminArea1,omitempty"`
	GeocodeQuality string `json:"geocodeQuality,omitempty"`
}

// LatLng is a coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is returned by GET /directions/v2/route.
type RouteResponse struct {
	Info  Info  `json:"info"`
	Route Route `json:"route"`
}

// Route carries the road distance in miles (unit=m) and drive time in seconds.
type Route struct {
	Distance      float64 `json:"distance"`
	Time          int     `json:"time"`
	FormattedTime string  `json:"formattedTime,omitempty"`
}

// APIError represents an error from the MapQuest API.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func statusError(info Info) *APIError {
	msg := "request failed"
	if len(info.Messages) > 0 {
		msg = info.Messages[0]
	}
	return &APIError{
		Code:    fmt.Sprintf("STATUS_%d", info.StatusCode),
		Message: msg,
	}
}

package mapquest

import (
	"context"
	"strings"
	"time"

	"github.com/tournevent/freightbench/pkg/geo"
)

// roadFactor approximates how much longer a driven route is than the
// great-circle distance between its endpoints.
const roadFactor = 1.18

// Gazetteer maps postal codes to coordinates for the mock client.
var Gazetteer = map[string]Location{
	"10001":    {LatLng: LatLng{Lat: 40.7506, Lng: -73.9972}, PostalCode: "10001", City: "New York", State: "NY", Country: "US"},
	"10118":    {LatLng: LatLng{Lat: 40.7484, Lng: -73.9857}, PostalCode: "10118", City: "New York", State: "NY", Country: "US"},
	"02108":    {LatLng: LatLng{Lat: 42.3576, Lng: -71.0631}, PostalCode: "02108", City: "Boston", State: "MA", Country: "US"},
	"30301":    {LatLng: LatLng{Lat: 33.7490, Lng: -84.3880}, PostalCode: "30301", City: "Atlanta", State: "GA", Country: "US"},
	"33101":    {LatLng: LatLng{Lat: 25.7743, Lng: -80.1937}, PostalCode: "33101", City: "Miami", State: "FL", Country: "US"},
	"60601":    {LatLng: LatLng{Lat: 41.8858, Lng: -87.6181}, PostalCode: "60601", City: "Chicago", State: "IL", Country: "US"},
	"75201":    {LatLng: LatLng{Lat: 32.7876, Lng: -96.7994}, PostalCode: "75201", City: "Dallas", State: "TX", Country: "US"},
	"80202":    {LatLng: LatLng{Lat: 39.7528, Lng: -104.9992}, PostalCode: "80202", City: "Denver", State: "CO", Country: "US"},
	"90210":    {LatLng: LatLng{Lat: 34.0901, Lng: -118.4065}, PostalCode: "90210", City: "Beverly Hills", State: "CA", Country: "US"},
	"94105":    {LatLng: LatLng{Lat: 37.7898, Lng: -122.3942}, PostalCode: "94105", City: "San Francisco", State: "CA", Country: "US"},
	"98101":    {LatLng: LatLng{Lat: 47.6101, Lng: -122.3344}, PostalCode: "98101", City: "Seattle", State: "WA", Country: "US"},
	"M5V 1A1":  {LatLng: LatLng{Lat: 43.6426, Lng: -79.3871}, PostalCode: "M5V 1A1", City: "Toronto", State: "ON", Country: "CA"},
	"V6B 2W2":  {LatLng: LatLng{Lat: 49.2827, Lng: -123.1207}, PostalCode: "V6B 2W2", City: "Vancouver", State: "BC", Country: "CA"},
	"SW1A 1AA": {LatLng: LatLng{Lat: 51.5014, Lng: -0.1419}, PostalCode: "SW1A 1AA", City: "London", Country: "GB"},
}

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGeocode func(ctx context.Context, location string) (*GeocodeResponse, error)
	OnRoute   func(ctx context.Context, from, to string) (*RouteResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Geocode resolves locations from the Gazetteer. The postal code is taken
// from the text after the last comma, so "Boston, 02108" resolves as well.
func (m *MockAPIClient) Geocode(ctx context.Context, location string) (*GeocodeResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}

	if m.OnGeocode != nil {
		return m.OnGeocode(ctx, location)
	}

	result := GeocodeResult{ProvidedLocation: ProvidedLocation{Location: location}}
	if loc, ok := lookup(location); ok {
		loc.GeocodeQuality = "ZIP"
		result.Locations = []Location{loc}
	}

	return &GeocodeResponse{
		Info:    Info{StatusCode: 0},
		Results: []GeocodeResult{result},
	}, nil
}

// Route returns a road distance derived from the great-circle distance.
func (m *MockAPIClient) Route(ctx context.Context, from, to string) (*RouteResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}

	if m.OnRoute != nil {
		return m.OnRoute(ctx, from, to)
	}

	origin, ok1 := lookup(from)
	dest, ok2 := lookup(to)
	if !ok1 || !ok2 {
		return &RouteResponse{
			Info: Info{StatusCode: 402, Messages: []string{"We are unable to route with the given locations."}},
		}, nil
	}

	km := geo.HaversineKM(
		geo.Coordinate{Lat: origin.LatLng.Lat, Lon: origin.LatLng.Lng},
		geo.Coordinate{Lat: dest.LatLng.Lat, Lon: dest.LatLng.Lng},
	)
	miles := km * geo.MilesPerKM * roadFactor

	return &RouteResponse{
		Info: Info{StatusCode: 0},
		Route: Route{
			Distance: miles,
			Time:     int(miles / 55 * 3600),
		},
	}, nil
}

func (m *MockAPIClient) simulate(ctx context.Context) error {
	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.SimulateErrors {
		return &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}
	return nil
}

func lookup(location string) (Location, bool) {
	code := strings.TrimSpace(location)
	if i := strings.LastIndex(code, ","); i >= 0 {
		code = strings.TrimSpace(code[i+1:])
	}
	loc, ok := Gazetteer[strings.ToUpper(code)]
	return loc, ok
}

var _ APIClient = (*MockAPIClient)(nil)

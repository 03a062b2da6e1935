package mapquest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/freightbench/pkg/mapquest"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(api mapquest.APIClient) *mapquest.Client {
	return mapquest.NewWithAPIClient(api, otelzap.New(zap.NewNop()), nil)
}

func TestClient_Coordinate_Mock(t *testing.T) {
	client := newTestClient(mapquest.NewMockAPIClient())

	coord, err := client.Coordinate(context.Background(), "10001")
	require.NoError(t, err)
	assert.InDelta(t, 40.7506, coord.Lat, 1e-9)
	assert.InDelta(t, -73.9972, coord.Lon, 1e-9)
}

func TestClient_Coordinate_CityComposite(t *testing.T) {
	client := newTestClient(mapquest.NewMockAPIClient())

	coord, err := client.Coordinate(context.Background(), "Boston, 02108")
	require.NoError(t, err)
	assert.InDelta(t, 42.3576, coord.Lat, 1e-9)
}

func TestClient_Coordinate_NoResults(t *testing.T) {
	client := newTestClient(mapquest.NewMockAPIClient())

	_, err := client.Coordinate(context.Background(), "00000")
	assert.True(t, errors.Is(err, mapquest.ErrNoResults))
}

func TestClient_Coordinate_StatusCode(t *testing.T) {
	mockAPI := mapquest.NewMockAPIClient()
	mockAPI.OnGeocode = func(ctx context.Context, location string) (*mapquest.GeocodeResponse, error) {
		return &mapquest.GeocodeResponse{
			Info: mapquest.Info{StatusCode: 403, Messages: []string{"Invalid API key"}},
		}, nil
	}
	client := newTestClient(mockAPI)

	_, err := client.Coordinate(context.Background(), "10001")
	var apiErr *mapquest.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "STATUS_403", apiErr.Code)
	assert.Equal(t, "Invalid API key", apiErr.Message)
}

func TestClient_Coordinate_SimulatedError(t *testing.T) {
	mockAPI := mapquest.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestClient(mockAPI)

	_, err := client.Coordinate(context.Background(), "10001")
	assert.Error(t, err)
}

func TestClient_DrivingMiles_Mock(t *testing.T) {
	client := newTestClient(mapquest.NewMockAPIClient())

	miles, err := client.DrivingMiles(context.Background(), "60601", "10001")
	require.NoError(t, err)
	assert.Greater(t, miles, 700.0)
	assert.Less(t, miles, 900.0)
}

func TestClient_DrivingMiles_Unroutable(t *testing.T) {
	client := newTestClient(mapquest.NewMockAPIClient())

	_, err := client.DrivingMiles(context.Background(), "60601", "nowhere")
	var apiErr *mapquest.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "STATUS_402", apiErr.Code)
}

func TestHTTPAPIClient_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocoding/v1/address", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "10118", r.URL.Query().Get("location"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"info":{"statuscode":0},"results":[{"providedLocation":{"location":"10118"},` +
			`"locations":[{"latLng":{"lat":40.7484,"lng":-73.9857},"postalCode":"10118"}]}]}`))
	}))
	defer srv.Close()

	api := mapquest.NewHTTPAPIClient(mapquest.HTTPAPIClientConfig{BaseURL: srv.URL, APIKey: "test-key"})
	coord, err := newTestClient(api).Coordinate(context.Background(), "10118")

	require.NoError(t, err)
	assert.InDelta(t, 40.7484, coord.Lat, 1e-9)
	assert.InDelta(t, -73.9857, coord.Lon, 1e-9)
}

func TestHTTPAPIClient_Route(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/directions/v2/route", r.URL.Path)
		assert.Equal(t, "m", r.URL.Query().Get("unit"))
		w.Write([]byte(`{"info":{"statuscode":0},"route":{"distance":789.6,"time":42000}}`))
	}))
	defer srv.Close()

	api := mapquest.NewHTTPAPIClient(mapquest.HTTPAPIClientConfig{BaseURL: srv.URL, APIKey: "k"})
	miles, err := newTestClient(api).DrivingMiles(context.Background(), "60601", "10001")

	require.NoError(t, err)
	assert.InDelta(t, 789.6, miles, 1e-9)
}

func TestHTTPAPIClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"info":{"statuscode":403,"messages":["The AppKey submitted with this request is invalid."]}}`))
	}))
	defer srv.Close()

	api := mapquest.NewHTTPAPIClient(mapquest.HTTPAPIClientConfig{BaseURL: srv.URL})
	_, err := api.Geocode(context.Background(), "10001")

	var apiErr *mapquest.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "STATUS_403", apiErr.Code)
}

func TestHTTPAPIClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	api := mapquest.NewHTTPAPIClient(mapquest.HTTPAPIClientConfig{BaseURL: srv.URL})
	_, err := api.Geocode(context.Background(), "10001")
	assert.Error(t, err)
}

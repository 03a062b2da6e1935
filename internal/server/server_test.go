package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/freightbench/internal/account"
	"github.com/tournevent/freightbench/internal/benchmark"
	"github.com/tournevent/freightbench/internal/compare"
	"github.com/tournevent/freightbench/internal/kvstore"
	"github.com/tournevent/freightbench/internal/quota"
	"github.com/tournevent/freightbench/internal/routecache"
	"github.com/tournevent/freightbench/internal/server"
	"github.com/tournevent/freightbench/internal/telemetry"
	"github.com/tournevent/freightbench/pkg/board"
	"github.com/tournevent/freightbench/pkg/board/mock"
	"github.com/tournevent/freightbench/pkg/distance"
	"github.com/tournevent/freightbench/pkg/mapquest"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, quotaLimit int) http.Handler {
	t.Helper()

	logger := otelzap.New(zap.NewNop())
	store := kvstore.NewMemory()
	metrics := telemetry.NewMetrics()

	registry := board.NewRegistry()
	registry.Register(mock.New("DAT").WithRate(2.6))
	registry.Register(mock.New("Truckstop").WithRate(2.4))
	registry.Register(mock.NewInternational("Freightos", 4.2))

	geocoder := mapquest.NewWithAPIClient(mapquest.NewMockAPIClient(), logger, nil)
	svc := benchmark.NewService(benchmark.Deps{
		Provider: distance.NewLocalHaversine(geocoder),
		Cache:    routecache.New(store),
		Gate:     quota.New(store, quotaLimit),
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
	})
	comparator := compare.New()
	svc.Publisher().Subscribe(comparator.OnSummary)

	srv := server.New(server.Config{Port: 8080}, server.Deps{
		Searches:   svc,
		Registry:   registry,
		Comparator: comparator,
		Accounts:   account.NewService(store, logger).WithHashCost(bcrypt.MinCost),
		Logger:     logger,
		Metrics:    metrics,
	})
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	e, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "no error in %v", body)
	return e["code"].(string)
}

func TestServer_Health(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_RequestIDPropagated(t *testing.T) {
	h := newTestServer(t, 1)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestServer_SearchFlow(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodGet, "/api/search/state", "")
	assert.Equal(t, "IDLE", decode(t, rec)["status"])

	rec = do(t, h, http.MethodPost, "/api/search", `{"origin":"10001","destination":"90210"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 2453.0, body["mileage"])
	assert.Equal(t, 2.5, body["averageRate"])
	assert.Equal(t, "DAT", body["topCarrier"].(map[string]interface{})["board"])
	quotes := body["quotes"].([]interface{})
	require.Len(t, quotes, 2)
	assert.Equal(t, 6377.8, quotes[0].(map[string]interface{})["totalCost"])

	rec = do(t, h, http.MethodGet, "/api/search/state", "")
	state := decode(t, rec)
	assert.Equal(t, "SUCCESS", state["status"])
	assert.NotNil(t, state["result"])

	rec = do(t, h, http.MethodPost, "/api/search", `{"origin":"10001","destination":"10118"}`)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "quota_exhausted", errorCode(t, body))
	assert.Equal(t, "/signup", body["error"].(map[string]interface{})["redirect"])

	rec = do(t, h, http.MethodGet, "/api/quota", "")
	assert.Equal(t, "EXHAUSTED", decode(t, rec)["state"])
}

func TestServer_SearchErrors(t *testing.T) {
	h := newTestServer(t, 10)

	rec := do(t, h, http.MethodPost, "/api/search", `{"origin":"","destination":"90210"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(t, decode(t, rec)))

	rec = do(t, h, http.MethodPost, "/api/search", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", errorCode(t, decode(t, rec)))

	rec = do(t, h, http.MethodPost, "/api/search", `{"origin":"00000","destination":"90210"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "lookup_failed", errorCode(t, body))
	assert.Equal(t, "Failed to fetch mileage. Please try again.", body["error"].(map[string]interface{})["message"])

	rec = do(t, h, http.MethodGet, "/api/search/state", "")
	state := decode(t, rec)
	assert.Equal(t, "FAILED", state["status"])
	assert.Equal(t, "Failed to fetch mileage. Please try again.", state["message"])
}

func TestServer_Compare(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodPost, "/api/compare", `{"rate":"2.00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0.00", decode(t, rec)["marketAverage"])

	do(t, h, http.MethodPost, "/api/search", `{"origin":"10001","destination":"90210"}`)

	rec = do(t, h, http.MethodPost, "/api/compare", `{"rate":"2.00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "2.50", body["marketAverage"])
	assert.Equal(t, "Below market average", body["comparison"].(map[string]interface{})["verdict"])

	rec = do(t, h, http.MethodPost, "/api/compare", `{"rate":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please enter a valid number", decode(t, rec)["error"].(map[string]interface{})["message"])
}

func TestServer_Export(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodGet, "/api/search/export.xlsx", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	do(t, h, http.MethodPost, "/api/search", `{"origin":"10001","destination":"90210"}`)

	rec = do(t, h, http.MethodGet, "/api/search/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Benchmark", "B1")
	require.NoError(t, err)
	assert.Equal(t, "10001", v)
}

func TestServer_SignUpAndAccount(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodPost, "/api/signup", `{"email":"driver@example.com","password":"long enough","plan":"enterprise"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "driver@example.com", decode(t, rec)["email"])

	rec = do(t, h, http.MethodPost, "/api/signup", `{"email":"driver@example.com","password":"long enough"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/signup", `{"email":"bad","password":"long enough"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/account?email=driver@example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "enterprise", decode(t, rec)["plan"].(map[string]interface{})["id"])

	rec = do(t, h, http.MethodGet, "/api/account?email=nobody@example.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/account", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Login(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodPost, "/api/signup", `{"email":"driver@example.com","password":"long enough"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/login", `{"email":"Driver@Example.com","password":"long enough"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "driver@example.com", decode(t, rec)["email"])

	rec = do(t, h, http.MethodPost, "/api/login", `{"email":"driver@example.com","password":"wrong password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/login", `{"email":"nobody@example.com","password":"long enough"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/login", `{"email":"bad","password":"long enough"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_BoardsAndPlans(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodGet, "/api/boards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["boards"], 3)

	rec = do(t, h, http.MethodGet, "/api/plans", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["plans"], 3)
}

func TestServer_GraphQL(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodPost, "/graphql", `{"query":"query { health }"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"health": true}, decode(t, rec)["data"])

	rec = do(t, h, http.MethodPost, "/graphql", `invalid json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/graphql", `{"query":"{ shipments }"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs, ok := decode(t, rec)["errors"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, errs)
}

func TestServer_GraphQL_MethodNotAllowed(t *testing.T) {
	h := newTestServer(t, 1)

	rec := do(t, h, http.MethodGet, "/graphql", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	h := newTestServer(t, 1)
	do(t, h, http.MethodPost, "/api/search", `{"origin":"10001","destination":"90210"}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `freightbench_searches_total{source="network",status="success"} 1`)
}

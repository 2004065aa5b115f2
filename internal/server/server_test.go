package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-lattice/internal/config"
	"github.com/contactkeval/option-lattice/internal/data"
	"github.com/contactkeval/option-lattice/internal/grid"
	"github.com/contactkeval/option-lattice/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return New(cfg, data.NewSyntheticProvider(42))
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestIndexShowsForm(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="current_price"`)
	assert.Contains(t, rec.Body.String(), `value="100"`)
}

func TestPriceForm(t *testing.T) {
	srv := testServer(t)

	form := url.Values{
		"current_price":    {"100"},
		"strike":           {"90"},
		"time_to_maturity": {"2"},
		"volatility":       {"0.2"},
		"interest_rate":    {"0.05"},
		"steps":            {"100"},
	}
	req := httptest.NewRequest(http.MethodPost, "/price", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CALL")
	assert.Contains(t, rec.Body.String(), "PUT")
}

func TestPriceFormInvalid(t *testing.T) {
	srv := testServer(t)

	form := url.Values{
		"current_price":    {"100"},
		"strike":           {"90"},
		"time_to_maturity": {"2"},
		"volatility":       {"0.2"},
		"interest_rate":    {"0.05"},
		"steps":            {"0"},
	}
	req := httptest.NewRequest(http.MethodPost, "/price", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "steps")
}

func TestAPIPrice(t *testing.T) {
	srv := testServer(t)

	body, err := json.Marshal(testutil.ScenarioRequest())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/price", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp priceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Greater(t, resp.Result.CallPrice, 0.0)
	assert.Greater(t, resp.Result.PutPrice, 0.0)

	// put-call parity on the wire
	lhs := resp.Result.CallPrice - resp.Result.PutPrice
	rhs := 100 - 90*math.Exp(-0.05*2)
	assert.InDelta(t, rhs, lhs, 1e-6)

	assert.InDelta(t, resp.BlackScholesCall, resp.Result.CallPrice, 0.5, "lattice should sit near the closed form")
}

func TestAPIPriceInvalid(t *testing.T) {
	srv := testServer(t)

	req := testutil.ScenarioRequest()
	req.CurrentPrice = -5
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/price", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "current_price")
}

func TestAPIPriceWithTicker(t *testing.T) {
	srv := testServer(t)

	body := []byte(`{"ticker":"AAPL","strike":100,"time_to_maturity":1,"interest_rate":0.05,"steps":50}`)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/price", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp priceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.Request.CurrentPrice, 0.0, "spot should come from the provider")
	assert.Greater(t, resp.Request.Volatility, 0.0, "vol should come from the provider")
}

func TestAPIHeatmap(t *testing.T) {
	srv := testServer(t)

	spec := grid.Spec{
		Base:      testutil.ScenarioRequest(),
		SpotMin:   90,
		SpotMax:   110,
		VolMin:    0.15,
		VolMax:    0.25,
		SpotSteps: 3,
		VolSteps:  3,
	}
	body, err := json.Marshal(spec)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/heatmap", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp heatmapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Call, 3)
	assert.Len(t, resp.Result.Call[0], 3)
}

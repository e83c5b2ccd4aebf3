package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/finsimulator/internal/projection/application"
	"github.com/wyfcoding/finsimulator/internal/projection/domain"
	"github.com/wyfcoding/finsimulator/pkg/metrics"
)

func newTestRouter(t *testing.T, ready *atomic.Bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := application.NewProjectionService(domain.NewMonteCarloEngine(domain.WithSeed(1)), nil, nil, application.ServiceConfig{})
	return NewRouter(NewProjectionHandler(svc), RouterConfig{
		ServiceName: "finsimulator",
		Version:     "test",
		Metrics:     metrics.New("finsimulator", false),
		Ready:       ready,
	})
}

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Mortgage(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/api/v1/mortgage", `{"price":5000000,"down_payment":1000000,"years":20,"rate":10,"payment_type":"annuity"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp application.MortgageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 38_600.87, resp.MonthlyPayment)
	assert.Len(t, resp.PaymentSchedule, 240)
}

func TestHandler_GoalNullFields(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/api/v1/goal", `{"goal_amount":1000000,"current_savings":100000,"years":10,"expected_rate":6}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "4991.85", string(raw["required_monthly"]))
	assert.Equal(t, "null", string(raw["expected_final_amount"]))
}

func TestHandler_ValidationError(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/api/v1/savings", `{"initial":1000,"monthly":0,"years":0,"rate":5}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string            `json:"error"`
		Detail map[string]string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "years", body.Detail["field"])
	assert.Contains(t, body.Error, "years")
}

func TestHandler_MalformedBody(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/api/v1/credit", `{"amount":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestHandler_MonteCarlo(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/api/v1/montecarlo", `{"initial":0,"monthly":0,"years":1,"avg_return":0,"risk":0,"simulations":10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp application.MonteCarloResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Probabilities.Loss)
	assert.Len(t, resp.Distribution, domain.HistogramBuckets)
	assert.Empty(t, resp.SimulationsData)
}

func TestHandler_CompareUnsupportedType(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/api/v1/compare", `{"type":"montecarlo","scenarios":[{"name":"a","data":{}},{"name":"b","data":{}}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported comparison type")
}

func TestHandler_Compare(t *testing.T) {
	r := newTestRouter(t, nil)

	body := `{"type":"credit","scenarios":[
		{"name":"expensive","data":{"amount":500000,"years":3,"rate":18}},
		{"name":"cheap","data":{"amount":500000,"years":3,"rate":11,"commission":1}}
	]}`
	w := postJSON(t, r, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp application.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cheap", resp.Recommendation)
	assert.Len(t, resp.Comparison, 2)
}

func TestRouter_Probes(t *testing.T) {
	var ready atomic.Bool
	r := newTestRouter(t, &ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sys/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	ready.Store(true)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sys/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sys/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "finsim_http_requests_total")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "POST /api/v1/compare")
}

func TestStatusFor(t *testing.T) {
	status, detail := StatusFor(&application.ValidationError{Field: "rate", Message: "bad"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, gin.H{"field": "rate"}, detail)

	status, _ = StatusFor(&domain.UnsupportedComparisonTypeError{Type: "x"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = StatusFor(context.DeadlineExceeded)
	assert.Equal(t, http.StatusRequestTimeout, status)

	status, _ = StatusFor(&domain.WorkerError{Worker: 2, Cause: errors.New("boom")})
	assert.Equal(t, http.StatusInternalServerError, status)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moviequotes/quote-service/internal/mocks"
	"github.com/moviequotes/quote-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// serveHealth mounts h under /-/ and performs one GET.
func serveHealth(t *testing.T, h *HealthHandler, path string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	h.RegisterHealthRoutesOnEngine(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestNewBuildInfo(t *testing.T) {
	assert.Equal(t, BuildInfo{
		Version:   "1.4.0",
		Commit:    "9f1c2ab",
		BuildTime: "2026-01-15T10:00:00Z",
		GoVersion: runtime.Version(),
	}, NewBuildInfo("1.4.0", "9f1c2ab", "2026-01-15T10:00:00Z"))
}

func TestLiveness_DoesNotTouchRegistry(t *testing.T) {
	// The mock fails the test on any unexpected CheckAll call.
	h := NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{})

	w := serveHealth(t, h, "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		result *ports.HealthResult
		code   int
		status string
	}{
		{
			name: "store reachable",
			result: &ports.HealthResult{
				Status: ports.HealthStatusHealthy,
				Checks: map[string]*ports.CheckResult{"quote-store": {Status: ports.HealthStatusHealthy}},
			},
			code:   http.StatusOK,
			status: "healthy",
		},
		{
			name: "store closed",
			result: &ports.HealthResult{
				Status: ports.HealthStatusUnhealthy,
				Checks: map[string]*ports.CheckResult{
					"quote-store": {Status: ports.HealthStatusUnhealthy, Message: "sql: database is closed"},
				},
			},
			code:   http.StatusServiceUnavailable,
			status: "unhealthy",
		},
		{
			name:   "nothing registered",
			result: &ports.HealthResult{Status: ports.HealthStatusHealthy, Checks: map[string]*ports.CheckResult{}},
			code:   http.StatusOK,
			status: "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.Anything).Return(tt.result).Once()

			w := serveHealth(t, NewHealthHandler(registry, BuildInfo{}), "/-/ready")

			assert.Equal(t, tt.code, w.Code)

			var body readinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			for name, check := range tt.result.Checks {
				require.Contains(t, body.Checks, name)
				assert.Equal(t, check.Message, body.Checks[name].Message)
			}
		})
	}
}

func TestBuildInfoHandler(t *testing.T) {
	info := BuildInfo{Version: "1.2.3", Commit: "def456", BuildTime: "2026-02-01T12:00:00Z", GoVersion: "go1.25.7"}

	w := serveHealth(t, NewHealthHandler(mocks.NewMockHealthRegistry(t), info), "/-/build")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"version":"1.2.3","commit":"def456","buildTime":"2026-02-01T12:00:00Z","goVersion":"go1.25.7"}`,
		w.Body.String())
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	served := prometheus.NewCounter(prometheus.CounterOpts{Name: "moviequotes_probe_total", Help: "Probe."})
	reg.MustRegister(served)
	served.Add(3)

	w := httptest.NewRecorder()
	MetricsHandler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "moviequotes_probe_total 3")
}

func TestWithGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{Name: "moviequotes_gatherer_probe", Help: "Probe."}))

	tests := []struct {
		name     string
		gatherer prometheus.Gatherer
		want     bool
	}{
		{"custom registry", reg, true},
		{"nil keeps default", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}, WithGatherer(tt.gatherer))

			w := serveHealth(t, h, "/-/metrics")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, strings.Contains(w.Body.String(), "moviequotes_gatherer_probe"))
		})
	}
}

func TestRegisterHealthRoutes(t *testing.T) {
	h := NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{})

	router := gin.New()
	h.RegisterHealthRoutes(router.Group("/-"))

	var got []string
	for _, r := range router.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}

	assert.ElementsMatch(t, []string{"GET /-/live", "GET /-/ready", "GET /-/build", "GET /-/metrics"}, got)
}

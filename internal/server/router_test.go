package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abduss/uploader/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubBuckets struct {
	exists bool
	err    error
}

func (b stubBuckets) BucketExists(context.Context, string) (bool, error) { return b.exists, b.err }

func testConfig() config.Config {
	return config.Config{
		Metadata: config.MetadataConfig{Driver: config.DriverMongo},
		MinIO:    config.MinIOConfig{Bucket: "uploads"},
		Metrics:  config.MetricsConfig{PrometheusPath: "/metrics"},
	}
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthLive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Dependencies{Config: testConfig()})

	rec := get(router, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestHealthReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		deps      Dependencies
		wantCode  int
		component string
	}{
		{
			name:     "all up",
			deps:     Dependencies{Metadata: stubPinger{}, ObjectStore: stubBuckets{exists: true}},
			wantCode: http.StatusOK,
		},
		{
			name:      "metadata down",
			deps:      Dependencies{Metadata: stubPinger{err: errors.New("no primary")}, ObjectStore: stubBuckets{exists: true}},
			wantCode:  http.StatusServiceUnavailable,
			component: "mongo",
		},
		{
			name:      "bucket missing",
			deps:      Dependencies{Metadata: stubPinger{}, ObjectStore: stubBuckets{}},
			wantCode:  http.StatusServiceUnavailable,
			component: "minio",
		},
		{
			name:      "object store down",
			deps:      Dependencies{Metadata: stubPinger{}, ObjectStore: stubBuckets{err: errors.New("dial tcp")}},
			wantCode:  http.StatusServiceUnavailable,
			component: "minio",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.deps.Config = testConfig()
			rec := get(NewRouter(tc.deps), "/health/ready")

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.component != "" {
				assert.Contains(t, rec.Body.String(), `"component":"`+tc.component+`"`)
				assert.NotContains(t, rec.Body.String(), "dial tcp")
			}
		})
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Dependencies{Config: testConfig()})

	rec := get(router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Server.AllowedOrigins = []string{"https://app.example.com"}
	router := NewRouter(Dependencies{Config: cfg})

	req := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

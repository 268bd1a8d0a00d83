package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes recorded by RecordUpload.
const (
	ResultSuccess       = "success"
	ResultRejected      = "rejected"
	ResultStorageError  = "storage_error"
	ResultMetadataError = "metadata_error"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uploads_total",
		Help: "Upload attempts by result.",
	}, []string{"result"})

	uploadedBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "uploaded_bytes_total",
		Help: "Bytes accepted into the object store.",
	})

	orphanedBlobs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "upload_orphaned_blobs_total",
		Help: "Objects written to storage without a metadata record.",
	})

	blobDeleteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "upload_blob_delete_failures_total",
		Help: "Object removals that failed while deleting a file record.",
	})

	registerOnce sync.Once
)

// InitMetrics registers collectors with the default registry. Safe to call
// more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, uploads, uploadedBytes, orphanedBlobs, blobDeleteFailures)
	})
}

// Middleware records request counts and latency.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// Recorder receives upload lifecycle events.
type Recorder struct{}

// RecordUpload counts an upload attempt and, on success, its size.
func (Recorder) RecordUpload(result string, size int64) {
	uploads.WithLabelValues(result).Inc()
	if result == ResultSuccess && size > 0 {
		uploadedBytes.Add(float64(size))
	}
}

// RecordOrphanedBlob counts an object left without metadata.
func (Recorder) RecordOrphanedBlob() {
	orphanedBlobs.Inc()
}

// RecordBlobDeleteFailure counts a best-effort object removal that failed.
func (Recorder) RecordBlobDeleteFailure() {
	blobDeleteFailures.Inc()
}

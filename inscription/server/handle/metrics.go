package handle

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func fqn(name string) string {
	return prometheus.BuildFQName("ordinscribe", "api", name)
}

var (
	HttpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fqn("http_duration"),
			Help:    "HTTP request duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 5, 15},
		},
		[]string{"method", "path", "status"},
	)

	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fqn("operations_total"),
			Help: "Engine operations by outcome",
		},
		[]string{"op", "result"},
	)

	UploadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fqn("upload_bytes"),
			Help:    "Size of uploaded inscription files",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"op"},
	)
)

const (
	opCreateCommit = "create_commit"
	opCreateReveal = "create_reveal"
	opQuery        = "query"
	opUpdateStatus = "update_status"
)

// HTTPMetrics records the duration of every request. The route template is
// used as the path label so ids do not blow up the label set.
func HTTPMetrics(c *gin.Context) {
	started := time.Now()

	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	HttpDuration.WithLabelValues(
		c.Request.Method,
		path,
		strconv.Itoa(c.Writer.Status()),
	).Observe(time.Since(started).Seconds())
}

func observeOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Operations.WithLabelValues(op, result).Inc()
}

func init() {
	prometheus.MustRegister(
		HttpDuration,
		Operations,
		UploadBytes,
	)
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestSummary = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "http_request_duration_seconds",
		Help:       "Summary for serving HTTP requests",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(requestSummary)
}

// Metrics observes the duration of every request by its route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqStart := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestSummary.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(reqStart).Seconds())
	}
}

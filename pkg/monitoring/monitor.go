package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// SubmissionCounter 按课时类型和结果统计测验提交
	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of quiz submissions",
		},
		[]string{"lesson_type", "outcome"},
	)

	ScorePercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_score_percentage",
			Help:    "Distribution of standard quiz percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	SkippedAnswers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_skipped_answers_total",
			Help: "Answers that referenced a question or option missing from the definition",
		},
		[]string{"lesson_type"},
	)

	DefinitionCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_definition_cache_lookups_total",
			Help: "Lesson definition cache lookups by result",
		},
		[]string{"result"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			SubmissionCounter,
			ScorePercentage,
			SkippedAnswers,
			DefinitionCacheLookups,
		)
	})
}

func ObserveSubmission(lessonType, outcome string) {
	SubmissionCounter.WithLabelValues(lessonType, outcome).Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

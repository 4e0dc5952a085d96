package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupHTTPMetrics() error {
	var err error

	s.httpRequestCounter, err = register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The number of HTTP requests served.",
	}, []string{"route", "code"}))
	if err != nil {
		return err
	}

	s.httpRequestTimer, err = register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "duration_seconds",
		Help:      "The time spent serving HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"}))
	return err
}

// HTTPRequest records a served request.
func (s *Service) HTTPRequest(route string, status int, duration time.Duration) {
	s.httpRequestCounter.WithLabelValues(route, strconv.Itoa(status)).Inc()
	s.httpRequestTimer.WithLabelValues(route).Observe(duration.Seconds())
}

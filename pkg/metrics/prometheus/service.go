package prometheus

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "pos_gateway"

// Service is a metrics service exposing metrics via prometheus.
type Service struct {
	logger *zap.Logger

	chainOperationCounter *prometheus.CounterVec
	chainOperationTimer   *prometheus.HistogramVec
	upstreamUp            prometheus.Gauge

	httpRequestCounter *prometheus.CounterVec
	httpRequestTimer   *prometheus.HistogramVec
}

// New creates a new prometheus metrics service registered with the default registerer.
func New(logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{logger: logger.With(zap.String("service", "metrics"), zap.String("impl", "prometheus"))}

	if err := s.setupChainMetrics(); err != nil {
		return nil, fmt.Errorf("failed to set up chain metrics: %w", err)
	}
	if err := s.setupHTTPMetrics(); err != nil {
		return nil, fmt.Errorf("failed to set up http metrics: %w", err)
	}

	return s, nil
}

// Presenter provides the presenter for this service.
func (*Service) Presenter() string {
	return "prometheus"
}

// Handler serves the default registry.
func (*Service) Handler() http.Handler {
	return promhttp.Handler()
}

// register registers c, returning the already registered collector of the same
// description if there is one so that repeated construction is harmless.
func register[T prometheus.Collector](c T) (T, error) {
	if err := prometheus.Register(c); err != nil {
		var alreadyRegisteredError prometheus.AlreadyRegisteredError
		if ok := errors.As(err, &alreadyRegisteredError); ok {
			existing, ok := alreadyRegisteredError.ExistingCollector.(T)
			if !ok {
				return c, err
			}
			return existing, nil
		}
		return c, err
	}
	return c, nil
}

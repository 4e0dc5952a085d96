package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func (s *Service) setupChainMetrics() error {
	var err error

	s.chainOperationCounter, err = register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_operation",
		Name:      "requests_total",
		Help:      "The number of chain queries issued.",
	}, []string{"operation", "result"}))
	if err != nil {
		return err
	}

	s.chainOperationTimer, err = register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_operation",
		Name:      "duration_seconds",
		Help:      "The time spent waiting for the chain node.",
		Buckets: []float64{
			0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
		},
	}, []string{"operation"}))
	if err != nil {
		return err
	}

	s.upstreamUp, err = register(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "up",
		Help:      "1 if the latest connectivity probe of the chain node succeeded.",
	}))
	return err
}

// ChainOperation records a chain query.
func (s *Service) ChainOperation(operation string, succeeded bool, duration time.Duration) {
	if succeeded {
		s.chainOperationCounter.WithLabelValues(operation, "succeeded").Inc()
		s.chainOperationTimer.WithLabelValues(operation).Observe(duration.Seconds())
	} else {
		s.chainOperationCounter.WithLabelValues(operation, "failed").Inc()
	}
}

// UpstreamUp records the result of the latest connectivity probe.
func (s *Service) UpstreamUp(up bool) {
	if up {
		s.upstreamUp.Set(1)
	} else {
		s.upstreamUp.Set(0)
	}
}

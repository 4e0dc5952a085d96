// Package metrics tracks the behaviour of the gateway and of the chain node behind it.
package metrics

import (
	"net/http"
	"time"
)

// Service is the generic metrics service.
type Service interface {
	// Presenter provides the presenter for this service.
	Presenter() string
	// Handler serves the metrics exposition, or nil if the presenter has none.
	Handler() http.Handler
}

// ChainMonitor provides methods to monitor chain query operations.
type ChainMonitor interface {
	// ChainOperation is called once per chain query with its outcome and duration.
	ChainOperation(operation string, succeeded bool, duration time.Duration)
	// UpstreamUp records the result of the latest connectivity probe.
	UpstreamUp(up bool)
}

// HTTPMonitor provides methods to monitor the HTTP surface.
type HTTPMonitor interface {
	// HTTPRequest is called once per served request.
	HTTPRequest(route string, status int, duration time.Duration)
}

// Monitor is the union of all monitors the gateway reports to.
type Monitor interface {
	Service
	ChainMonitor
	HTTPMonitor
}

// Package null is a metrics service that discards everything.
package null

import (
	"net/http"
	"time"
)

// Service is a metrics service that drops metrics.
type Service struct{}

// New creates a new null metrics service.
func New() *Service {
	return &Service{}
}

// Presenter provides the presenter for this service.
func (*Service) Presenter() string {
	return "null"
}

// Handler returns nil; there is nothing to expose.
func (*Service) Handler() http.Handler {
	return nil
}

// ChainOperation is a no-op.
func (*Service) ChainOperation(_ string, _ bool, _ time.Duration) {}

// UpstreamUp is a no-op.
func (*Service) UpstreamUp(_ bool) {}

// HTTPRequest is a no-op.
func (*Service) HTTPRequest(_ string, _ int, _ time.Duration) {}

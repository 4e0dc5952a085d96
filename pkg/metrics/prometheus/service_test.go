package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestService(t *testing.T) {
	s, err := New(zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "prometheus", s.Presenter())

	// A second construction reuses the registered collectors.
	s2, err := New(zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Same(t, s.chainOperationCounter, s2.chainOperationCounter)

	before := testutil.ToFloat64(s.chainOperationCounter.WithLabelValues("current_epoch", "failed"))
	s.ChainOperation("current_epoch", false, time.Millisecond)
	after := testutil.ToFloat64(s.chainOperationCounter.WithLabelValues("current_epoch", "failed"))
	assert.Equal(t, before+1, after)

	s.UpstreamUp(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.upstreamUp))
	s.UpstreamUp(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(s.upstreamUp))

	s.HTTPRequest("/epoch", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pos_gateway_http_requests_total")
}

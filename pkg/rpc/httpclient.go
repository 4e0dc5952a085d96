package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/canopy-network/pos-gateway/pkg/metrics"
	"github.com/canopy-network/pos-gateway/pkg/metrics/null"
	"github.com/canopy-network/pos-gateway/pkg/retry"
	"github.com/canopy-network/pos-gateway/pkg/utils"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
)

// maxErrorBody bounds how much of an error response is kept as the upstream message.
const maxErrorBody = 512

// HTTPClient is a wrapper around an http.Client that implements a circuit-breaker and token-bucket.
// It is safe for concurrent use and is shared by every request the gateway serves.
type HTTPClient struct {
	endpoints []string
	client    *http.Client
	logger    *zap.Logger
	monitor   metrics.ChainMonitor
	retry     retry.Config

	// token-bucket
	tokens      int64
	maxTokens   int64
	refillEvery time.Duration
	lastRefill  atomic.Value // time.Time

	// circuit-breaker
	failures *xsync.Map[string, int]
	opened   *xsync.Map[string, time.Time]

	breakerThreshold int
	breakerCooldown  time.Duration
}

// Opts is the set of options for a new HTTPClient.
type Opts struct {
	Endpoints       []string
	Timeout         time.Duration
	RPS             int
	Burst           int
	BreakerFailures int
	BreakerCooldown time.Duration
	// MaxAttempts is the number of tries per query; 1 disables retries.
	MaxAttempts int
	HTTPClient  *http.Client
	Logger      *zap.Logger
	Monitor     metrics.ChainMonitor
}

// NewHTTPWithOpts creates a new HTTPClient with the given options.
func NewHTTPWithOpts(o Opts) *HTTPClient {
	if o.RPS <= 0 {
		o.RPS = 20
	}
	if o.Burst <= 0 {
		o.Burst = 40
	}
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.BreakerFailures <= 0 {
		o.BreakerFailures = 3
	}
	if o.BreakerCooldown <= 0 {
		o.BreakerCooldown = 5 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Monitor == nil {
		o.Monitor = null.New()
	}

	client := o.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: o.Timeout}
	} else if client.Timeout == 0 {
		client.Timeout = o.Timeout
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = o.MaxAttempts

	c := &HTTPClient{
		endpoints:        utils.DedupEndpoints(o.Endpoints),
		client:           client,
		logger:           o.Logger.With(zap.String("component", "rpc")),
		monitor:          o.Monitor,
		retry:            retryCfg,
		maxTokens:        int64(o.Burst),
		refillEvery:      time.Second / time.Duration(o.RPS),
		failures:         xsync.NewMap[string, int](),
		opened:           xsync.NewMap[string, time.Time](),
		breakerThreshold: o.BreakerFailures,
		breakerCooldown:  o.BreakerCooldown,
	}
	c.tokens = c.maxTokens
	c.lastRefill.Store(time.Now())
	return c
}

// Endpoints returns the configured node endpoints.
func (c *HTTPClient) Endpoints() []string {
	out := make([]string, len(c.endpoints))
	copy(out, c.endpoints)
	return out
}

// refill refills the token-bucket with new tokens if necessary.
func (c *HTTPClient) refill() {
	last := c.lastRefill.Load().(time.Time)
	now := time.Now()
	if now.Sub(last) >= c.refillEvery {
		if atomic.LoadInt64(&c.tokens) < c.maxTokens {
			atomic.AddInt64(&c.tokens, 1)
		}
		c.lastRefill.Store(now)
	}
}

// acquire acquires a token from the token-bucket, blocking until one is available or ctx ends.
func (c *HTTPClient) acquire(ctx context.Context) error {
	for {
		c.refill()
		if atomic.AddInt64(&c.tokens, -1) >= 0 {
			return nil
		}
		atomic.AddInt64(&c.tokens, 1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.refillEvery / 2):
		}
	}
}

// isOpen returns true if the endpoint's breaker is in the OPEN state.
func (c *HTTPClient) isOpen(ep string) bool {
	until, ok := c.opened.Load(ep)
	if !ok {
		return false
	}
	if time.Now().After(until) {
		c.opened.Delete(ep)
		c.failures.Store(ep, 0)
		return false
	}
	return true
}

// noteFailure marks an endpoint as failed and opens the circuit-breaker if the failure count exceeds the threshold.
func (c *HTTPClient) noteFailure(ep string) {
	n, _ := c.failures.Compute(ep, func(old int, _ bool) (int, xsync.ComputeOp) {
		return old + 1, xsync.UpdateOp
	})
	if n >= c.breakerThreshold {
		c.opened.Store(ep, time.Now().Add(c.breakerCooldown))
		c.logger.Warn("Circuit breaker opened", zap.String("endpoint", ep), zap.Int("failures", n))
	}
}

// noteSuccess resets the failure count of an endpoint.
func (c *HTTPClient) noteSuccess(ep string) {
	c.failures.Store(ep, 0)
}

// doJSON sends an HTTP request to a configured endpoint with the given method, path, and JSON payload and processes the response.
// It moves on to the next endpoint when one is unreachable, answers with a server error, or its breaker is open.
// A client error (4xx) is the node's answer to the query itself and is returned as a *StatusError without failover.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	if len(c.endpoints) == 0 {
		return fmt.Errorf("no endpoints configured")
	}

	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = b
	}

	var lastErr error
	for _, ep := range c.endpoints {
		// Skip endpoints whose breaker is OPEN.
		if c.isOpen(ep) {
			lastErr = fmt.Errorf("endpoint %s: circuit open", ep)
			continue
		}

		if err := c.acquire(ctx); err != nil {
			return err
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, ep+path, bytes.NewReader(body))
		if reqErr != nil {
			// Request creation failed: not an endpoint failure, just return.
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			c.noteFailure(ep)
			continue
		}

		// From here on, always drain+close the body before continuing/returning.
		if resp.StatusCode >= 500 {
			lastErr = readStatusError(resp)
			c.noteFailure(ep)
			_ = utils.DrainAndClose(resp.Body)
			continue
		}
		if resp.StatusCode >= 300 {
			statusErr := readStatusError(resp)
			_ = utils.DrainAndClose(resp.Body)
			return statusErr
		}

		if out != nil {
			if err := decodeInto(resp.Body, out); err != nil {
				_ = utils.DrainAndClose(resp.Body)
				lastErr = fmt.Errorf("decode response from %s: %w", ep, err)
				c.noteFailure(ep)
				continue
			}
		}

		c.noteSuccess(ep)
		if cerr := utils.DrainAndClose(resp.Body); cerr != nil {
			c.logger.Debug("Failed to close response body", zap.String("endpoint", ep), zap.Error(cerr))
		}
		return nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no endpoint available")
	}
	return lastErr
}

// decodeInto decodes r into a fresh value and stores it in out only on success,
// so a malformed body never leaves fields behind for the next attempt.
func decodeInto(r io.Reader, out any) error {
	dst := reflect.ValueOf(out)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", out)
	}
	fresh := reflect.New(dst.Elem().Type())
	if err := json.NewDecoder(r).Decode(fresh.Interface()); err != nil {
		return err
	}
	dst.Elem().Set(fresh.Elem())
	return nil
}

// readStatusError builds a StatusError from a non-2xx response, keeping a bounded
// prefix of the body as the upstream message.
func readStatusError(resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := string(bytes.TrimSpace(raw))

	var structured struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &structured) == nil {
		switch {
		case structured.Error != "":
			msg = structured.Error
		case structured.Message != "":
			msg = structured.Message
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}

// call runs one named query with retries, reporting its outcome to the monitor.
func (c *HTTPClient) call(ctx context.Context, operation, method, path string, payload any, out any) error {
	start := time.Now()
	err := retry.WithBackoff(ctx, c.retry, c.logger, operation, func() error {
		err := c.doJSON(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < 500 {
			return retry.Permanent(err)
		}
		if ctx.Err() != nil {
			return retry.Permanent(err)
		}
		return err
	})
	c.monitor.ChainOperation(operation, err == nil, time.Since(start))
	if err != nil {
		c.logger.Debug("Chain query failed", zap.String("operation", operation), zap.Error(err))
		return &QueryError{Operation: operation, Err: err}
	}
	return nil
}

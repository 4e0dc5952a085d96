package rpc

import (
	"context"
	"net/http"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
)

// Ping checks that at least one endpoint answers its health path with a 2xx status.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.call(ctx, "ping", http.MethodGet, healthPath, nil, nil)
}

// CurrentEpoch returns the epoch the node is currently in.
func (c *HTTPClient) CurrentEpoch(ctx context.Context) (posmodels.Epoch, error) {
	var resp RpcEpoch
	if err := c.call(ctx, "current_epoch", http.MethodPost, epochPath, map[string]any{}, &resp); err != nil {
		return 0, err
	}
	return posmodels.Epoch(resp.Epoch), nil
}

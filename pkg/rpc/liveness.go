package rpc

import (
	"context"
	"net/http"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
)

// LivenessSnapshot returns the missed-vote accounting of the consensus validators at epoch.
func (c *HTTPClient) LivenessSnapshot(ctx context.Context, epoch posmodels.Epoch) (posmodels.LivenessSnapshot, error) {
	const op = "liveness_snapshot"
	var resp RpcLivenessInfo
	if err := c.call(ctx, op, http.MethodPost, livenessInfoPath, epochRequest{Epoch: uint64(epoch)}, &resp); err != nil {
		return posmodels.LivenessSnapshot{}, err
	}
	snapshot, err := resp.ToSnapshot()
	if err != nil {
		return posmodels.LivenessSnapshot{}, &QueryError{Operation: op, Err: err}
	}
	return snapshot, nil
}

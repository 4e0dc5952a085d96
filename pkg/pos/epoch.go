package pos

import (
	"context"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/canopy-network/pos-gateway/pkg/rpc"
)

// EpochContext pins every epoch-sensitive query of one request to a single epoch.
// It can only be obtained from an EpochResolver, or from Pin for a caller-supplied epoch.
type EpochContext struct {
	epoch posmodels.Epoch
	set   bool
}

// Epoch returns the pinned epoch.
func (ec EpochContext) Epoch() posmodels.Epoch { return ec.epoch }

// Valid reports whether ec was produced by a resolver.
func (ec EpochContext) Valid() bool { return ec.set }

// Pin returns an EpochContext for an epoch the caller already knows.
func Pin(epoch posmodels.Epoch) EpochContext {
	return EpochContext{epoch: epoch, set: true}
}

// EpochResolver turns an optional requested epoch into an EpochContext.
type EpochResolver struct {
	chain rpc.Client
}

// NewEpochResolver returns a resolver backed by chain.
func NewEpochResolver(chain rpc.Client) *EpochResolver {
	return &EpochResolver{chain: chain}
}

// Resolve returns requested unchanged when present, without asking the chain whether it exists.
// Otherwise it issues exactly one current-epoch query.
func (r *EpochResolver) Resolve(ctx context.Context, requested *posmodels.Epoch) (EpochContext, error) {
	if requested != nil {
		return Pin(*requested), nil
	}
	epoch, err := r.chain.CurrentEpoch(ctx)
	if err != nil {
		return EpochContext{}, queryFailure(err)
	}
	return Pin(epoch), nil
}

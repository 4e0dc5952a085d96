package rpc

import (
	"context"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
)

// Client captures the point queries the gateway issues against the chain node.
// Every method is independent, holds no session state and may fail with a *QueryError.
// Implementations must be safe for concurrent use.
type Client interface {
	Ping(ctx context.Context) error
	CurrentEpoch(ctx context.Context) (posmodels.Epoch, error)
	IsValidator(ctx context.Context, address posmodels.Address) (bool, error)
	// ValidatorState returns nil when the chain reports no state for the validator at epoch.
	ValidatorState(ctx context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.ValidatorState, error)
	// ValidatorStake returns nil when the chain reports no stake for the validator at epoch.
	ValidatorStake(ctx context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.Amount, error)
	// ValidatorMetadataAndCommission returns nil metadata when the validator never set any.
	ValidatorMetadataAndCommission(ctx context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.ValidatorMetadata, posmodels.CommissionInfo, error)
	LivenessSnapshot(ctx context.Context, epoch posmodels.Epoch) (posmodels.LivenessSnapshot, error)
	ActiveValidatorSet(ctx context.Context, epoch posmodels.Epoch) ([]posmodels.Address, error)
	ConsensusValidatorSet(ctx context.Context, epoch posmodels.Epoch) ([]posmodels.WeightedValidator, error)
	BelowCapacityValidatorSet(ctx context.Context, epoch posmodels.Epoch) ([]posmodels.WeightedValidator, error)
	TokenBalance(ctx context.Context, token, owner posmodels.Address, height *uint64) (posmodels.Amount, error)
	TokenTotalSupply(ctx context.Context, token posmodels.Address) (posmodels.Amount, error)
	NativeToken(ctx context.Context) (posmodels.Address, error)
}

var _ Client = (*HTTPClient)(nil)

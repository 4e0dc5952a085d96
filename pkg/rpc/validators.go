package rpc

import (
	"context"
	"net/http"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
)

// IsValidator reports whether address has ever become a validator.
func (c *HTTPClient) IsValidator(ctx context.Context, address posmodels.Address) (bool, error) {
	var resp RpcIsValidator
	if err := c.call(ctx, "is_validator", http.MethodPost, isValidatorPath, newValidatorRequest(address, nil), &resp); err != nil {
		return false, err
	}
	return resp.IsValidator, nil
}

// ValidatorState returns the state of a validator at epoch, or nil if the node reports none.
// Spellings the gateway does not know map to ValidatorStateUnknown.
func (c *HTTPClient) ValidatorState(ctx context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.ValidatorState, error) {
	var resp RpcValidatorState
	if err := c.call(ctx, "validator_state", http.MethodPost, validatorStatePath, newValidatorRequest(address, &epoch), &resp); err != nil {
		return nil, err
	}
	if resp.State == nil {
		return nil, nil
	}
	state, _ := posmodels.ParseValidatorState(*resp.State)
	return &state, nil
}

// ValidatorStake returns the bonded stake of a validator at epoch, or nil if the node reports none.
func (c *HTTPClient) ValidatorStake(ctx context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.Amount, error) {
	const op = "validator_stake"
	var resp RpcValidatorStake
	if err := c.call(ctx, op, http.MethodPost, validatorStakePath, newValidatorRequest(address, &epoch), &resp); err != nil {
		return nil, err
	}
	if resp.Stake == nil {
		return nil, nil
	}
	stake, err := posmodels.ParseAmount(*resp.Stake)
	if err != nil {
		return nil, &QueryError{Operation: op, Err: err}
	}
	return &stake, nil
}

// ValidatorMetadataAndCommission returns the metadata (nil if never set) and commission of a validator at epoch.
func (c *HTTPClient) ValidatorMetadataAndCommission(ctx context.Context, address posmodels.Address, epoch posmodels.Epoch) (*posmodels.ValidatorMetadata, posmodels.CommissionInfo, error) {
	const op = "validator_metadata"
	var resp RpcValidatorMetadataResponse
	if err := c.call(ctx, op, http.MethodPost, validatorMetadataPath, newValidatorRequest(address, &epoch), &resp); err != nil {
		return nil, posmodels.CommissionInfo{}, err
	}
	commission, err := resp.Commission.ToCommission()
	if err != nil {
		return nil, posmodels.CommissionInfo{}, &QueryError{Operation: op, Err: err}
	}
	return resp.Metadata.ToMetadata(), commission, nil
}

// ActiveValidatorSet returns the addresses of every validator that is not inactive at epoch.
// The node gives no ordering guarantee.
func (c *HTTPClient) ActiveValidatorSet(ctx context.Context, epoch posmodels.Epoch) ([]posmodels.Address, error) {
	var resp RpcAddressList
	if err := c.call(ctx, "active_validator_set", http.MethodPost, activeValidatorSetPath, epochRequest{Epoch: uint64(epoch)}, &resp); err != nil {
		return nil, err
	}
	out := make([]posmodels.Address, 0, len(resp.Validators))
	for _, v := range resp.Validators {
		out = append(out, canonicalAddress(v))
	}
	return out, nil
}

// ConsensusValidatorSet returns the consensus validators with their bonded stake at epoch.
func (c *HTTPClient) ConsensusValidatorSet(ctx context.Context, epoch posmodels.Epoch) ([]posmodels.WeightedValidator, error) {
	return c.weightedSet(ctx, "consensus_validator_set", consensusValidatorSetPath, epoch)
}

// BelowCapacityValidatorSet returns the below-capacity validators with their bonded stake at epoch.
func (c *HTTPClient) BelowCapacityValidatorSet(ctx context.Context, epoch posmodels.Epoch) ([]posmodels.WeightedValidator, error) {
	return c.weightedSet(ctx, "below_capacity_validator_set", belowCapacityValidatorSetPath, epoch)
}

func (c *HTTPClient) weightedSet(ctx context.Context, op, path string, epoch posmodels.Epoch) ([]posmodels.WeightedValidator, error) {
	var resp RpcWeightedValidatorList
	if err := c.call(ctx, op, http.MethodPost, path, epochRequest{Epoch: uint64(epoch)}, &resp); err != nil {
		return nil, err
	}
	set, err := resp.ToWeightedValidators()
	if err != nil {
		return nil, &QueryError{Operation: op, Err: err}
	}
	return set, nil
}

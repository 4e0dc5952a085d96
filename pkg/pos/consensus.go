package pos

import (
	"context"
	"regexp"
	"slices"
	"strings"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/canopy-network/pos-gateway/pkg/rpc"
)

var consensusAddressPattern = regexp.MustCompile(`^[0-9A-Fa-f]{40}$`)

// ConsensusResolver maps a consensus-engine address to the chain-native validator address.
type ConsensusResolver struct {
	chain  rpc.Client
	epochs *EpochResolver
}

// NewConsensusResolver returns a resolver backed by chain.
func NewConsensusResolver(chain rpc.Client, epochs *EpochResolver) *ConsensusResolver {
	return &ConsensusResolver{chain: chain, epochs: epochs}
}

// Resolve looks raw up in the current liveness snapshot. A match whose validator has left
// the active set is reported as NotFound.
func (r *ConsensusResolver) Resolve(ctx context.Context, raw string) (posmodels.Address, error) {
	if !consensusAddressPattern.MatchString(raw) {
		return "", invalidFormat("invalid consensus address %q: expected 40 hex characters", raw)
	}

	ec, err := r.epochs.Resolve(ctx, nil)
	if err != nil {
		return "", err
	}

	snapshot, err := r.chain.LivenessSnapshot(ctx, ec.Epoch())
	if err != nil {
		return "", queryFailure(err)
	}

	idx := slices.IndexFunc(snapshot.Records, func(rec posmodels.LivenessRecord) bool {
		return strings.EqualFold(rec.ConsensusAddress, raw)
	})
	if idx < 0 {
		return "", notFound("no validator with consensus address %s", raw)
	}
	address := snapshot.Records[idx].Address

	active, err := r.chain.ActiveValidatorSet(ctx, ec.Epoch())
	if err != nil {
		return "", queryFailure(err)
	}
	if !slices.Contains(active, address) {
		return "", notFound("validator %s is not in the active set at epoch %d", address, ec.Epoch())
	}

	return address, nil
}

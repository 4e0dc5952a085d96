package rpc

import (
	"fmt"
	"strings"

	posmodels "github.com/canopy-network/pos-gateway/pkg/models/pos"
	"github.com/shopspring/decimal"
)

// --- Query types

type epochRequest struct {
	Epoch uint64 `json:"epoch"`
}

type validatorRequest struct {
	Address string  `json:"address"`
	Epoch   *uint64 `json:"epoch,omitempty"`
}

func newValidatorRequest(address posmodels.Address, epoch *posmodels.Epoch) validatorRequest {
	req := validatorRequest{Address: address.String()}
	if epoch != nil {
		e := uint64(*epoch)
		req.Epoch = &e
	}
	return req
}

type tokenRequest struct {
	Token  string  `json:"token"`
	Owner  string  `json:"owner,omitempty"`
	Height *uint64 `json:"height,omitempty"`
}

// --- Response types

// RpcEpoch is returned by /v1/query/epoch.
type RpcEpoch struct {
	Epoch uint64 `json:"epoch"`
}

// RpcIsValidator is returned by /v1/query/pos/is-validator.
type RpcIsValidator struct {
	IsValidator bool `json:"isValidator"`
}

// RpcValidatorState is returned by /v1/query/pos/validator-state. A null state means
// the validator has no state at the requested epoch.
type RpcValidatorState struct {
	State *string `json:"state"`
}

// RpcValidatorStake is returned by /v1/query/pos/validator-stake.
type RpcValidatorStake struct {
	Stake *string `json:"stake"`
}

// RpcValidatorMetadata is the metadata block of /v1/query/pos/validator-metadata.
type RpcValidatorMetadata struct {
	Email         *string `json:"email"`
	Description   *string `json:"description"`
	Website       *string `json:"website"`
	DiscordHandle *string `json:"discordHandle"`
	Name          *string `json:"name"`
	Avatar        *string `json:"avatar"`
}

// RpcCommissionPair holds decimal strings; null means unset.
type RpcCommissionPair struct {
	CommissionRate              *string `json:"commissionRate"`
	MaxCommissionChangePerEpoch *string `json:"maxCommissionChangePerEpoch"`
}

// RpcValidatorMetadataResponse is returned by /v1/query/pos/validator-metadata.
type RpcValidatorMetadataResponse struct {
	Metadata   *RpcValidatorMetadata `json:"metadata"`
	Commission RpcCommissionPair     `json:"commission"`
}

// RpcValidatorLiveness is one entry of /v1/query/pos/liveness-info.
type RpcValidatorLiveness struct {
	NativeAddress string `json:"nativeAddress"`
	CometAddress  string `json:"cometAddress"`
	MissedVotes   uint64 `json:"missedVotes"`
}

// RpcLivenessInfo is returned by /v1/query/pos/liveness-info.
type RpcLivenessInfo struct {
	LivenessWindowLen uint64                 `json:"livenessWindowLen"`
	LivenessThreshold string                 `json:"livenessThreshold"`
	Validators        []RpcValidatorLiveness `json:"validators"`
}

// RpcAddressList is returned by /v1/query/pos/validator-set/active.
type RpcAddressList struct {
	Validators []string `json:"validators"`
}

// RpcWeightedValidator is an entry of the consensus and below-capacity sets.
type RpcWeightedValidator struct {
	Address     string `json:"address"`
	BondedStake string `json:"bondedStake"`
}

// RpcWeightedValidatorList is returned by the weighted validator set paths.
type RpcWeightedValidatorList struct {
	Validators []RpcWeightedValidator `json:"validators"`
}

// RpcTokenBalance is returned by /v1/query/token/balance.
type RpcTokenBalance struct {
	Balance string `json:"balance"`
}

// RpcTokenTotalSupply is returned by /v1/query/token/total-supply.
type RpcTokenTotalSupply struct {
	TotalSupply string `json:"totalSupply"`
}

// RpcNativeToken is returned by /v1/query/token/native.
type RpcNativeToken struct {
	Address string `json:"address"`
}

// --- Conversions

// canonicalAddress normalises an address reported by the node.
func canonicalAddress(raw string) posmodels.Address {
	return posmodels.Address(strings.ToLower(strings.TrimSpace(raw)))
}

// ToMetadata converts the RPC metadata block. A block with every field unset is still
// reported, since the chain distinguishes "no metadata" (null block) from an empty one.
func (m *RpcValidatorMetadata) ToMetadata() *posmodels.ValidatorMetadata {
	if m == nil {
		return nil
	}
	return &posmodels.ValidatorMetadata{
		Email:         m.Email,
		Description:   m.Description,
		Website:       m.Website,
		DiscordHandle: m.DiscordHandle,
		Name:          m.Name,
		Avatar:        m.Avatar,
	}
}

// ToCommission converts the commission pair, keeping unset values nil.
func (p RpcCommissionPair) ToCommission() (posmodels.CommissionInfo, error) {
	var out posmodels.CommissionInfo
	if p.CommissionRate != nil {
		d, err := decimal.NewFromString(*p.CommissionRate)
		if err != nil {
			return out, fmt.Errorf("decode commission rate: %w", err)
		}
		out.Rate = &d
	}
	if p.MaxCommissionChangePerEpoch != nil {
		d, err := decimal.NewFromString(*p.MaxCommissionChangePerEpoch)
		if err != nil {
			return out, fmt.Errorf("decode max commission change: %w", err)
		}
		out.MaxChangePerEpoch = &d
	}
	return out, nil
}

// ToSnapshot converts liveness info into a snapshot.
func (l RpcLivenessInfo) ToSnapshot() (posmodels.LivenessSnapshot, error) {
	threshold, err := decimal.NewFromString(l.LivenessThreshold)
	if err != nil {
		return posmodels.LivenessSnapshot{}, fmt.Errorf("decode liveness threshold: %w", err)
	}
	records := make([]posmodels.LivenessRecord, 0, len(l.Validators))
	for _, v := range l.Validators {
		records = append(records, posmodels.LivenessRecord{
			Address:          canonicalAddress(v.NativeAddress),
			ConsensusAddress: strings.ToUpper(strings.TrimSpace(v.CometAddress)),
			MissedVotes:      v.MissedVotes,
		})
	}
	return posmodels.LivenessSnapshot{
		WindowLen: l.LivenessWindowLen,
		Threshold: threshold,
		Records:   records,
	}, nil
}

// ToWeightedValidators converts a weighted validator list.
func (l RpcWeightedValidatorList) ToWeightedValidators() ([]posmodels.WeightedValidator, error) {
	out := make([]posmodels.WeightedValidator, 0, len(l.Validators))
	for _, v := range l.Validators {
		stake, err := posmodels.ParseAmount(v.BondedStake)
		if err != nil {
			return nil, fmt.Errorf("decode stake of %s: %w", v.Address, err)
		}
		out = append(out, posmodels.WeightedValidator{
			Address: canonicalAddress(v.Address),
			Stake:   stake,
		})
	}
	return out, nil
}

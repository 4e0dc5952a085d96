package pos

import (
	"github.com/shopspring/decimal"
)

// Epoch identifies a chain state snapshot. Epochs increase monotonically.
type Epoch uint64

// CommissionInfo holds a validator's commission settings at an epoch.
// A nil field means the chain reported no value, which is not the same as zero.
type CommissionInfo struct {
	Rate              *decimal.Decimal
	MaxChangePerEpoch *decimal.Decimal
}

// ValidatorMetadata is the self-declared description of a validator. Every field is optional.
type ValidatorMetadata struct {
	Email         *string `json:"email,omitempty"`
	Description   *string `json:"description,omitempty"`
	Website       *string `json:"website,omitempty"`
	DiscordHandle *string `json:"discord_handle,omitempty"`
	Name          *string `json:"name,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
}

// LivenessRecord is one validator's entry in a liveness snapshot.
type LivenessRecord struct {
	Address          Address `json:"address"`           // chain-native validator address
	ConsensusAddress string  `json:"consensus_address"` // consensus-engine address, 40 hex chars
	MissedVotes      uint64  `json:"missed_votes"`
}

// LivenessSnapshot is the per-epoch missed-vote accounting of the consensus validators.
type LivenessSnapshot struct {
	WindowLen uint64           `json:"window_len"` // number of blocks in the liveness window
	Threshold decimal.Decimal  `json:"threshold"`  // fraction in [0, 1]
	Records   []LivenessRecord `json:"validators"`
}

// WeightedValidator is a validator address paired with its bonded stake.
type WeightedValidator struct {
	Address Address `json:"address"`
	Stake   Amount  `json:"stake"`
}

// ValidatorDetail is the denormalized view of one validator at one epoch.
type ValidatorDetail struct {
	Address    Address
	Epoch      Epoch
	State      ValidatorState
	Stake      Amount
	Commission CommissionInfo
	Metadata   *ValidatorMetadata
}

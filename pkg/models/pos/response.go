package pos

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// absentDecimal is how a missing commission value is displayed.
const absentDecimal = "0"

// validatorDetailJSON is the wire shape of ValidatorDetail.
type validatorDetailJSON struct {
	Address                     Address            `json:"address"`
	Epoch                       Epoch              `json:"epoch"`
	State                       ValidatorState     `json:"state"`
	Stake                       Amount             `json:"stake"`
	CommissionRate              string             `json:"commission_rate"`
	MaxCommissionChangePerEpoch string             `json:"max_commission_change_per_epoch"`
	Metadata                    *ValidatorMetadata `json:"metadata,omitempty"`
}

// MarshalJSON flattens absent commission values to "0". The flattening happens only here;
// CommissionInfo keeps the distinction for every other consumer.
func (d ValidatorDetail) MarshalJSON() ([]byte, error) {
	return json.Marshal(validatorDetailJSON{
		Address:                     d.Address,
		Epoch:                       d.Epoch,
		State:                       d.State,
		Stake:                       d.Stake,
		CommissionRate:              decimalOrZero(d.Commission.Rate),
		MaxCommissionChangePerEpoch: decimalOrZero(d.Commission.MaxChangePerEpoch),
		Metadata:                    d.Metadata,
	})
}

func decimalOrZero(d *decimal.Decimal) string {
	if d == nil {
		return absentDecimal
	}
	return d.String()
}

// Pagination describes the slice of a collection returned in one page.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// ValidatorsPage is the response of the paginated validator listing.
type ValidatorsPage struct {
	Validators []ValidatorDetail `json:"validators"`
	Pagination Pagination        `json:"pagination"`
}

// ValidatorSet is a weighted validator set at an epoch.
type ValidatorSet struct {
	Epoch      Epoch               `json:"epoch"`
	Validators []WeightedValidator `json:"validators"`
}

// TokenBalance is the balance of owner in token, optionally at a block height.
type TokenBalance struct {
	Token   Address `json:"token"`
	Owner   Address `json:"owner"`
	Balance Amount  `json:"balance"`
	Height  *uint64 `json:"height,omitempty"`
}

// TokenSupply is the total supply of a token.
type TokenSupply struct {
	Token       Address `json:"token"`
	TotalSupply Amount  `json:"total_supply"`
}

package pos

import "strings"

// ValidatorState is the lifecycle state of a validator at an epoch.
type ValidatorState uint8

const (
	ValidatorStateUnknown ValidatorState = iota
	ValidatorStateConsensus
	ValidatorStateBelowCapacity
	ValidatorStateBelowThreshold
	ValidatorStateInactive
	ValidatorStateJailed
)

// validatorStateNames is the external text of every state. These strings are part of the
// public API and must not change with the Go identifiers.
var validatorStateNames = map[ValidatorState]string{
	ValidatorStateUnknown:        "Unknown",
	ValidatorStateConsensus:      "Consensus",
	ValidatorStateBelowCapacity:  "BelowCapacity",
	ValidatorStateBelowThreshold: "BelowThreshold",
	ValidatorStateInactive:       "Inactive",
	ValidatorStateJailed:         "Jailed",
}

// validatorStatesByWire maps lower-cased upstream spellings to states.
var validatorStatesByWire = map[string]ValidatorState{
	"consensus":       ValidatorStateConsensus,
	"below_capacity":  ValidatorStateBelowCapacity,
	"belowcapacity":   ValidatorStateBelowCapacity,
	"below_threshold": ValidatorStateBelowThreshold,
	"belowthreshold":  ValidatorStateBelowThreshold,
	"inactive":        ValidatorStateInactive,
	"jailed":          ValidatorStateJailed,
}

func (s ValidatorState) String() string {
	if name, ok := validatorStateNames[s]; ok {
		return name
	}
	return validatorStateNames[ValidatorStateUnknown]
}

func (s ValidatorState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseValidatorState maps an upstream state spelling to a ValidatorState.
// Unrecognised values map to ValidatorStateUnknown with ok=false.
func ParseValidatorState(raw string) (state ValidatorState, ok bool) {
	state, ok = validatorStatesByWire[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return ValidatorStateUnknown, false
	}
	return state, true
}

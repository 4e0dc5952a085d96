package pos

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// DefaultAddressHRP is the human-readable prefix used by chain-native addresses.
const DefaultAddressHRP = "tnam"

// Address is a chain-native address (validator, token or owner) in canonical form.
// Canonical form is the lower-case bech32m encoding; two addresses are equal iff their
// canonical strings are equal.
type Address string

func (a Address) String() string { return string(a) }

// AddressFormatError is returned when a raw address cannot be decoded.
type AddressFormatError struct {
	Raw    string
	Reason string
}

func (e *AddressFormatError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Raw, e.Reason)
}

// ParseAddress decodes raw as a bech32m address with the given human-readable prefix
// and returns its canonical form. Mixed-case input is rejected by the decoder.
func ParseAddress(raw, hrp string) (Address, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &AddressFormatError{Raw: raw, Reason: "empty"}
	}
	if hrp == "" {
		hrp = DefaultAddressHRP
	}

	decodedHRP, data, version, err := bech32.DecodeGeneric(raw)
	if err != nil {
		return "", &AddressFormatError{Raw: raw, Reason: err.Error()}
	}
	if version != bech32.VersionM {
		return "", &AddressFormatError{Raw: raw, Reason: "not a bech32m encoding"}
	}
	if decodedHRP != hrp {
		return "", &AddressFormatError{Raw: raw, Reason: fmt.Sprintf("unexpected prefix %q", decodedHRP)}
	}
	if len(data) == 0 {
		return "", &AddressFormatError{Raw: raw, Reason: "empty payload"}
	}

	return Address(strings.ToLower(raw)), nil
}

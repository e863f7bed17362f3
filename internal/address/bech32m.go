package address

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Human-readable prefixes of the Chia networks.
const (
	PrefixMainnet = "xch"
	PrefixTestnet = "txch"
)

var (
	// ErrEncoding is returned when a puzzle hash cannot be encoded.
	ErrEncoding = errors.New("address encoding failed")
	// ErrInvalidAddress is returned for strings that are not a bech32m
	// address with the expected prefix and a 32-byte payload.
	ErrInvalidAddress = errors.New("invalid address")
)

// ValidPrefix reports whether prefix names a known network.
func ValidPrefix(prefix string) bool {
	return prefix == PrefixMainnet || prefix == PrefixTestnet
}

// Encode returns the bech32m address of h under prefix.
func Encode(h PuzzleHash, prefix string) (string, error) {
	data, err := bech32.ConvertBits(h[:], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	addr, err := bech32.EncodeM(prefix, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return addr, nil
}

// Decode recovers the puzzle hash from addr, which must be bech32m with the
// given prefix.
func Decode(addr, prefix string) (PuzzleHash, error) {
	var h PuzzleHash

	hrp, data, version, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if version != bech32.VersionM {
		return h, fmt.Errorf("%w: not bech32m", ErrInvalidAddress)
	}
	if hrp != prefix {
		return h, fmt.Errorf("%w: prefix %q, want %q", ErrInvalidAddress, hrp, prefix)
	}

	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != len(h) {
		return h, fmt.Errorf("%w: payload is %d bytes", ErrInvalidAddress, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

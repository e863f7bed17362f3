package export

import (
	"strings"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/mnemonic"
)

const labelGroupBits = 11

// Label names a key with three wordlist entries taken from the fingerprint's
// 11-bit groups, highest group first. The fingerprint is public, so the
// label carries no secret.
func Label(fingerprint uint32) string {
	words := mnemonic.Wordlist()
	fp := uint64(fingerprint)
	mask := uint64(1)<<labelGroupBits - 1

	parts := make([]string, 3)
	for i := range parts {
		shift := uint(2-i) * labelGroupBits
		parts[i] = words[(fp>>shift)&mask]
	}
	return strings.Join(parts, "-")
}

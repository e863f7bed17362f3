// Package entropy provides the single random source a run threads through
// mnemonic generation and index sampling.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// SeedSize is the length of the ChaCha20 key used as seed.
const SeedSize = chacha20.KeySize

// Source is a ChaCha20 keystream. It satisfies io.Reader for entropy and
// math/rand/v2's Source for sampling. A Source is not safe for concurrent use.
type Source struct {
	stream *chacha20.Cipher
}

// New returns a deterministic Source keyed by seed.
func New(seed [SeedSize]byte) *Source {
	nonce := make([]byte, chacha20.NonceSize)
	stream, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce)
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(fmt.Sprintf("entropy: chacha20 init: %v", err))
	}
	return &Source{stream: stream}
}

// FromOS returns a Source seeded from the operating system's CSPRNG.
func FromOS() (*Source, error) {
	var seed [SeedSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("read os entropy: %w", err)
	}
	return New(seed), nil
}

// Read fills p with keystream bytes. It never fails.
func (s *Source) Read(p []byte) (int, error) {
	clear(p)
	s.stream.XORKeyStream(p, p)
	return len(p), nil
}

// Uint64 returns the next 8 keystream bytes as a little-endian integer.
func (s *Source) Uint64() uint64 {
	var buf [8]byte
	_, _ = s.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

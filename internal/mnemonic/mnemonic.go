// Package mnemonic produces and parses BIP-39 seed phrases.
package mnemonic

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var (
	// ErrInvalidMnemonic is returned for a phrase whose words or checksum
	// do not form a valid mnemonic.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	// ErrUnsupportedWordCount is returned for phrase lengths other than 12 or 24.
	ErrUnsupportedWordCount = errors.New("unsupported mnemonic word count")
)

// entropyLen is the number of random bytes read per generation; 12-word
// phrases use the first half.
const entropyLen = 32

// Mnemonic is an immutable, validated seed phrase.
type Mnemonic struct {
	phrase string
}

// Generate draws entropy from r and encodes it as a phrase of the given
// word count.
func Generate(r io.Reader, words int) (*Mnemonic, error) {
	if !SupportedWordCount(words) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedWordCount, words)
	}

	entropy := make([]byte, entropyLen)
	if _, err := io.ReadFull(r, entropy); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}
	if words == 12 {
		entropy = entropy[:16]
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return &Mnemonic{phrase: phrase}, nil
}

// Parse normalises whitespace and case, then validates the phrase's words
// and checksum.
func Parse(text string) (*Mnemonic, error) {
	fields := strings.Fields(strings.ToLower(text))
	if !SupportedWordCount(len(fields)) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedWordCount, len(fields))
	}

	phrase := strings.Join(fields, " ")
	if _, err := bip39.EntropyFromMnemonic(phrase); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return &Mnemonic{phrase: phrase}, nil
}

// SupportedWordCount reports whether n is an accepted phrase length.
func SupportedWordCount(n int) bool {
	return n == 12 || n == 24
}

// Seed expands the phrase with an empty passphrase.
func (m *Mnemonic) Seed() []byte {
	return bip39.NewSeed(m.phrase, "")
}

// Words returns the number of words in the phrase.
func (m *Mnemonic) Words() int {
	return len(strings.Fields(m.phrase))
}

func (m *Mnemonic) String() string {
	return m.phrase
}

// Wordlist returns the BIP-39 English wordlist used for phrases and labels.
func Wordlist() []string {
	return bip39.GetWordList()
}

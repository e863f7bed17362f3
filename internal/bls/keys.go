// Package bls implements the BLS12-381 key operations used by Chia wallets:
// seed key generation, EIP-2333 hardened derivation, the public-key-capable
// unhardened derivation and the synthetic key transform. Public keys live
// in G1 and serialize to 48 compressed bytes.
package bls

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/crypto/hkdf"
)

const (
	// SecretKeySize is the big-endian scalar length.
	SecretKeySize = 32
	// PublicKeySize is the compressed G1 point length.
	PublicKeySize = bls12381.SizeOfG1AffineCompressed
	// MinSeedSize is the shortest seed KeyGen accepts.
	MinSeedSize = 32
)

var (
	// ErrInvalidSeed is returned when a seed is too short for KeyGen.
	ErrInvalidSeed = errors.New("invalid key derivation seed")
	// ErrInvalidKey is returned for malformed key encodings.
	ErrInvalidKey = errors.New("invalid key")
)

var (
	groupOrder = fr.Modulus()
	g1Gen      bls12381.G1Affine
)

func init() {
	_, _, g1Gen, _ = bls12381.Generators()
}

// SecretKey is a scalar modulo the BLS12-381 group order.
type SecretKey struct {
	scalar *big.Int
}

// PublicKey is a point in G1.
type PublicKey struct {
	point bls12381.G1Affine
}

// SecretKeyFromSeed runs KeyGen over seed: HKDF-SHA256 with the
// "BLS-SIG-KEYGEN-SALT-" salt, IKM seed||0x00 and 48 output bytes reduced
// modulo the group order.
func SecretKeyFromSeed(seed []byte) (SecretKey, error) {
	if len(seed) < MinSeedSize {
		return SecretKey{}, fmt.Errorf("%w: %d bytes, need at least %d",
			ErrInvalidSeed, len(seed), MinSeedSize)
	}
	return keyGen(seed), nil
}

func keyGen(seed []byte) SecretKey {
	const okmLen = 48

	ikm := make([]byte, 0, len(seed)+1)
	ikm = append(ikm, seed...)
	ikm = append(ikm, 0)
	info := []byte{0, okmLen}

	okm := make([]byte, okmLen)
	kdf := hkdf.New(sha256.New, ikm, []byte("BLS-SIG-KEYGEN-SALT-"), info)
	if _, err := io.ReadFull(kdf, okm); err != nil {
		panic(fmt.Sprintf("bls: hkdf expand: %v", err))
	}

	return SecretKey{scalar: reduce(new(big.Int).SetBytes(okm))}
}

// SecretKeyFromBytes parses a 32-byte big-endian scalar below the group order.
func SecretKeyFromBytes(b []byte) (SecretKey, error) {
	if len(b) != SecretKeySize {
		return SecretKey{}, fmt.Errorf("%w: secret key is %d bytes", ErrInvalidKey, len(b))
	}
	s := new(big.Int).SetBytes(b)
	if s.Cmp(groupOrder) >= 0 {
		return SecretKey{}, fmt.Errorf("%w: secret key exceeds group order", ErrInvalidKey)
	}
	return SecretKey{scalar: s}, nil
}

// Bytes returns the 32-byte big-endian scalar.
func (sk SecretKey) Bytes() []byte {
	return sk.scalarOrZero().FillBytes(make([]byte, SecretKeySize))
}

// PublicKey returns sk·G1.
func (sk SecretKey) PublicKey() PublicKey {
	var p bls12381.G1Affine
	p.ScalarMultiplication(&g1Gen, sk.scalarOrZero())
	return PublicKey{point: p}
}

// Equal reports whether two secret keys hold the same scalar.
func (sk SecretKey) Equal(other SecretKey) bool {
	return sk.scalarOrZero().Cmp(other.scalarOrZero()) == 0
}

func (sk SecretKey) add(s *big.Int) SecretKey {
	return SecretKey{scalar: reduce(new(big.Int).Add(sk.scalarOrZero(), s))}
}

func (sk SecretKey) scalarOrZero() *big.Int {
	if sk.scalar == nil {
		return new(big.Int)
	}
	return sk.scalar
}

// PublicKeyFromBytes parses a compressed G1 point, rejecting points outside
// the prime-order subgroup.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: public key is %d bytes", ErrInvalidKey, len(b))
	}
	var p bls12381.G1Affine
	if _, err := p.SetBytes(b); err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return PublicKey{point: p}, nil
}

// PublicKeyFromHex parses a hex encoded compressed G1 point, with or
// without a 0x prefix.
func PublicKeyFromHex(s string) (PublicKey, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return PublicKeyFromBytes(b)
}

// Bytes returns the 48-byte compressed encoding.
func (pk PublicKey) Bytes() []byte {
	b := pk.point.Bytes()
	return b[:]
}

// Hex returns the lowercase hex of Bytes.
func (pk PublicKey) Hex() string {
	return hex.EncodeToString(pk.Bytes())
}

// Fingerprint is the first four bytes of SHA-256 over the encoded key,
// read big-endian. It identifies a key for display only.
func (pk PublicKey) Fingerprint() uint32 {
	sum := sha256.Sum256(pk.Bytes())
	return binary.BigEndian.Uint32(sum[:4])
}

// Equal reports whether two public keys are the same point.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.point.Equal(&other.point)
}

func (pk PublicKey) addScalarBase(s *big.Int) PublicKey {
	var offset bls12381.G1Affine
	offset.ScalarMultiplication(&g1Gen, s)

	var sum, rhs bls12381.G1Jac
	sum.FromAffine(&pk.point)
	rhs.FromAffine(&offset)
	sum.AddAssign(&rhs)

	var out bls12381.G1Affine
	out.FromJacobian(&sum)
	return PublicKey{point: out}
}

func reduce(v *big.Int) *big.Int {
	return v.Mod(v, groupOrder)
}

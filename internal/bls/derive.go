package bls

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// lamportChunks is the number of 32-byte lamport secrets per half.
const lamportChunks = 255

// DefaultHiddenPuzzleHash is the hidden puzzle committed to by standard
// wallet synthetic keys.
var DefaultHiddenPuzzleHash = mustHash32("711d6c4e32c92e53179b199484cf8c897542bc57f2b22582799f9d657eec4699")

// DeriveHardened derives the EIP-2333 child at index. It needs the secret key.
func (sk SecretKey) DeriveHardened(index uint32) SecretKey {
	return keyGen(parentToLamportPK(sk, index))
}

// DeriveUnhardened derives the child whose public key can also be computed
// from sk's public key alone via PublicKey.DeriveUnhardened.
func (sk SecretKey) DeriveUnhardened(index uint32) SecretKey {
	return sk.add(unhardenedNonce(sk.PublicKey(), index))
}

// DeriveUnhardened derives pk + nonce·G1 where nonce commits to pk and index.
func (pk PublicKey) DeriveUnhardened(index uint32) PublicKey {
	return pk.addScalarBase(unhardenedNonce(pk, index))
}

// DerivePathHardened applies DeriveHardened for each path segment in order.
func (sk SecretKey) DerivePathHardened(path []uint32) SecretKey {
	for _, index := range path {
		sk = sk.DeriveHardened(index)
	}
	return sk
}

// DerivePathUnhardened applies DeriveUnhardened for each path segment.
func (sk SecretKey) DerivePathUnhardened(path []uint32) SecretKey {
	for _, index := range path {
		sk = sk.DeriveUnhardened(index)
	}
	return sk
}

// DerivePathUnhardened applies DeriveUnhardened for each path segment.
func (pk PublicKey) DerivePathUnhardened(path []uint32) PublicKey {
	for _, index := range path {
		pk = pk.DeriveUnhardened(index)
	}
	return pk
}

// Synthetic applies the standard puzzle's key transform for the default
// hidden puzzle: sk + offset.
func (sk SecretKey) Synthetic() SecretKey {
	return sk.add(syntheticOffset(sk.PublicKey(), DefaultHiddenPuzzleHash))
}

// Synthetic applies the standard puzzle's key transform for the default
// hidden puzzle: pk + offset·G1.
func (pk PublicKey) Synthetic() PublicKey {
	return pk.addScalarBase(syntheticOffset(pk, DefaultHiddenPuzzleHash))
}

func parentToLamportPK(parent SecretKey, index uint32) []byte {
	salt := make([]byte, 4)
	binary.BigEndian.PutUint32(salt, index)

	ikm := parent.Bytes()
	notIKM := make([]byte, len(ikm))
	for i, b := range ikm {
		notIKM[i] = b ^ 0xff
	}

	h := sha256.New()
	for _, half := range [][]byte{ikm, notIKM} {
		lamport := ikmToLamportSK(half, salt)
		for i := 0; i < lamportChunks; i++ {
			chunk := sha256.Sum256(lamport[i*sha256.Size : (i+1)*sha256.Size])
			h.Write(chunk[:])
		}
	}
	return h.Sum(nil)
}

func ikmToLamportSK(ikm, salt []byte) []byte {
	out := make([]byte, lamportChunks*sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, nil), out); err != nil {
		panic(fmt.Sprintf("bls: lamport expand: %v", err))
	}
	return out
}

func unhardenedNonce(parent PublicKey, index uint32) *big.Int {
	buf := make([]byte, 0, PublicKeySize+4)
	buf = append(buf, parent.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, index)
	digest := sha256.Sum256(buf)
	return reduce(new(big.Int).SetBytes(digest[:]))
}

// syntheticOffset reads SHA-256(pk || hidden) as a signed big-endian integer
// and reduces it into [0, order).
func syntheticOffset(pk PublicKey, hidden [32]byte) *big.Int {
	h := sha256.New()
	h.Write(pk.Bytes())
	h.Write(hidden[:])
	digest := h.Sum(nil)

	v := new(big.Int).SetBytes(digest)
	if digest[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 256))
	}
	return reduce(v)
}

func mustHash32(s string) [32]byte {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		panic("bls: bad 32-byte hex constant " + s)
	}
	var out [32]byte
	copy(out[:], b)
	return out
}

package bls

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSeed(b byte) []byte {
	return bytes.Repeat([]byte{b}, 64)
}

func testKey(t *testing.T) SecretKey {
	t.Helper()
	sk, err := SecretKeyFromSeed(testSeed(7))
	require.NoError(t, err)
	return sk
}

func TestSecretKeyFromSeed_ShortSeed(t *testing.T) {
	_, err := SecretKeyFromSeed(make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidSeed)
}

func TestSecretKeyFromSeed_Deterministic(t *testing.T) {
	a, err := SecretKeyFromSeed(testSeed(1))
	require.NoError(t, err)
	b, err := SecretKeyFromSeed(testSeed(1))
	require.NoError(t, err)
	c, err := SecretKeyFromSeed(testSeed(2))
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.Len(t, a.Bytes(), SecretKeySize)
	require.Less(t, new(big.Int).SetBytes(a.Bytes()).Cmp(groupOrder), 0)
}

func TestSecretKey_BytesRoundTrip(t *testing.T) {
	sk := testKey(t)
	parsed, err := SecretKeyFromBytes(sk.Bytes())
	require.NoError(t, err)
	require.True(t, sk.Equal(parsed))

	_, err = SecretKeyFromBytes(make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = SecretKeyFromBytes(bytes.Repeat([]byte{0xff}, 32))
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestPublicKey_Encoding(t *testing.T) {
	pk := testKey(t).PublicKey()
	raw := pk.Bytes()
	require.Len(t, raw, PublicKeySize)
	// Compressed points carry the compression flag in the top bit.
	require.NotZero(t, raw[0]&0x80)

	parsed, err := PublicKeyFromBytes(raw)
	require.NoError(t, err)
	require.True(t, pk.Equal(parsed))

	fromHex, err := PublicKeyFromHex("0x" + pk.Hex())
	require.NoError(t, err)
	require.True(t, pk.Equal(fromHex))
}

func TestPublicKeyFromBytes_Errors(t *testing.T) {
	_, err := PublicKeyFromBytes(make([]byte, 47))
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = PublicKeyFromHex("zz")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestFingerprint(t *testing.T) {
	pk := testKey(t).PublicKey()
	require.Equal(t, pk.Fingerprint(), pk.Fingerprint())

	other := testKey(t).DeriveHardened(0).PublicKey()
	require.NotEqual(t, pk.Fingerprint(), other.Fingerprint())
}

func TestSecretKeyFromSeed_KnownFingerprints(t *testing.T) {
	tests := []struct {
		seed byte
		want uint32
	}{
		{0x00, 0xb40dd58a},
		{0x01, 0xb839add1},
	}
	for _, tt := range tests {
		sk, err := SecretKeyFromSeed(bytes.Repeat([]byte{tt.seed}, 32))
		require.NoError(t, err)
		require.Equal(t, tt.want, sk.PublicKey().Fingerprint(), "seed 32×%#02x", tt.seed)
	}
}

// Package wallet derives a Chia wallet key tree from a mnemonic and turns
// per-index child keys into receive addresses.
package wallet

import (
	"errors"
	"fmt"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/bls"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/mnemonic"
)

// Path segments of the BLS wallet derivation convention.
const (
	PurposeBLS    uint32 = 12381
	CoinTypeChia  uint32 = 8444
	AccountFarmer uint32 = 0
	AccountPool   uint32 = 1
	AccountWallet uint32 = 2
)

var (
	// WalletPath leads from the master key to both wallet intermediates.
	WalletPath = []uint32{PurposeBLS, CoinTypeChia, AccountWallet}
	// FarmerPath and PoolPath are always derived hardened.
	FarmerPath = []uint32{PurposeBLS, CoinTypeChia, AccountFarmer, 0}
	PoolPath   = []uint32{PurposeBLS, CoinTypeChia, AccountPool, 0}
)

// ErrKeyDerivation wraps failures of the underlying key primitives.
var ErrKeyDerivation = errors.New("key derivation failed")

// Branches are the roots of per-index derivation.
type Branches struct {
	Hardened        bls.SecretKey
	Unhardened      bls.PublicKey
	MasterPublicKey bls.PublicKey
	Fingerprint     uint32
}

// ServiceKeys are the fixed-path farmer and pool keys.
type ServiceKeys struct {
	Farmer bls.SecretKey
	Pool   bls.SecretKey
}

// SyntheticKey is a per-index key after the standard puzzle transform.
// Secret is nil on the unhardened path, which never touches secret material.
type SyntheticKey struct {
	Index     uint32
	Hardened  bool
	PublicKey bls.PublicKey
	Secret    *bls.SecretKey
}

// DeriveMaster expands m with an empty passphrase and runs KeyGen on the seed.
func DeriveMaster(m *mnemonic.Mnemonic) (bls.SecretKey, error) {
	sk, err := bls.SecretKeyFromSeed(m.Seed())
	if err != nil {
		return bls.SecretKey{}, fmt.Errorf("%w: %v", ErrKeyDerivation, err)
	}
	return sk, nil
}

// DeriveBranches derives the hardened intermediate from the secret key and
// the unhardened intermediate from its public key.
func DeriveBranches(master bls.SecretKey) Branches {
	mpk := master.PublicKey()
	return Branches{
		Hardened:        master.DerivePathHardened(WalletPath),
		Unhardened:      DeriveObserverKey(mpk),
		MasterPublicKey: mpk,
		Fingerprint:     mpk.Fingerprint(),
	}
}

// DeriveObserverKey derives the unhardened intermediate from a master
// public key. It is all a watch-only wallet needs.
func DeriveObserverKey(mpk bls.PublicKey) bls.PublicKey {
	return mpk.DerivePathUnhardened(WalletPath)
}

// DeriveServiceKeys derives the farmer and pool keys. Their paths are
// constants and do not depend on any enumeration parameter.
func DeriveServiceKeys(master bls.SecretKey) ServiceKeys {
	return ServiceKeys{
		Farmer: master.DerivePathHardened(FarmerPath),
		Pool:   master.DerivePathHardened(PoolPath),
	}
}

// DeriveHardenedChild derives the child secret at index and applies the
// synthetic transform to it before taking the public key.
func DeriveHardenedChild(intermediate bls.SecretKey, index uint32) SyntheticKey {
	synthetic := intermediate.DeriveHardened(index).Synthetic()
	return SyntheticKey{
		Index:     index,
		Hardened:  true,
		PublicKey: synthetic.PublicKey(),
		Secret:    &synthetic,
	}
}

// DeriveUnhardenedChild derives the child public key at index and applies
// the synthetic transform to the public key.
func DeriveUnhardenedChild(intermediate bls.PublicKey, index uint32) SyntheticKey {
	return SyntheticKey{
		Index:     index,
		PublicKey: intermediate.DeriveUnhardened(index).Synthetic(),
	}
}

package wallet

import (
	"testing"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/address"
)

// Known answers for the 12-word "abandon ... about" phrase.
const (
	vectorFingerprint = 3781984839
	vectorMasterPK    = "82ae65efe846b15a92c51b7ad6c32589fd79d38263d3cbefbeeba08be8e90d8bc335a1e2fcc66a10b8c817c06232285a"
	vectorFarmerPK    = "a0b37f085a99bbc97484a9fc4239110b67a698ab8115c268ff51f14814d517b28cf5e0392ff2b6ed6d9b9592d11d15b5"
	vectorPoolPK      = "89d8893e124168666352a247aa0af912a206356305654e40726c03849fe04b682ff54186904c6993914f9f424cf9868f"
	vectorObserverKey = "a417be8b3382bfc69e3e6f801f96263290d883a6c22ffdfd00434e116f24679bf15c8e0ea9aa5db11ac0457a8912bf79"
)

func TestKnownVector_Keys(t *testing.T) {
	master := testMaster(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	b := DeriveBranches(master)
	s := DeriveServiceKeys(master)

	if b.Fingerprint != vectorFingerprint {
		t.Errorf("fingerprint: got %d, want %d", b.Fingerprint, vectorFingerprint)
	}
	checks := []struct {
		name, got, want string
	}{
		{"master public key", b.MasterPublicKey.Hex(), vectorMasterPK},
		{"farmer public key", s.Farmer.PublicKey().Hex(), vectorFarmerPK},
		{"pool public key", s.Pool.PublicKey().Hex(), vectorPoolPK},
		{"observer key", b.Unhardened.Hex(), vectorObserverKey},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s:\n got %s\nwant %s", c.name, c.got, c.want)
		}
	}
}

func TestKnownVector_Addresses(t *testing.T) {
	b := testBranches(t)

	tests := []struct {
		gen        Generator
		prefix     string
		index      uint32
		puzzleHash string
		address    string
	}{
		{NewHardenedGenerator(b.Hardened, address.PrefixMainnet), address.PrefixMainnet, 0,
			"f6d4fc484b93b2cfc46b07e927a8787ed0cdaf81557e101f30c2f0bb7651452b",
			"xch17m20cjztjwevl3rtql5j02rc0mgvmtup24lpq8esctctkaj3g54szqxuju"},
		{NewHardenedGenerator(b.Hardened, address.PrefixMainnet), address.PrefixMainnet, 1,
			"d2851601f91b3153edb331908d357894bbec5805b14a5b1755e03c663ce90394",
			"xch162z3vq0ervc48mdnxxgg6dtcjja7ckq9k999k964uq7xv08fqw2qyalmwh"},
		{NewUnhardenedGenerator(b.Unhardened, address.PrefixMainnet), address.PrefixMainnet, 0,
			"792931431ba2976e36e3abc0b35c811948536bcf77f39a8d99ec2a15af0e84bc",
			"xch10y5nzscm52tkudhr40qtxhypr9y9x670wlee4rveas4pttcwsj7q7psn9w"},
		{NewUnhardenedGenerator(b.Unhardened, address.PrefixMainnet), address.PrefixMainnet, 1,
			"a2c36282632ac4c1ec6125deca75c9928c65351ddab207655a45c3a4d921174c",
			"xch15tpk9qnr9tzvrmrpyh0v5awfj2xx2dgam2eqwe26ghp6fkfpzaxq5rcrjq"},
		{NewUnhardenedGenerator(b.Unhardened, address.PrefixTestnet), address.PrefixTestnet, 0,
			"792931431ba2976e36e3abc0b35c811948536bcf77f39a8d99ec2a15af0e84bc",
			"txch10y5nzscm52tkudhr40qtxhypr9y9x670wlee4rveas4pttcwsj7qnxh9ya"},
	}

	for _, tt := range tests {
		addr, err := tt.gen.Generate(tt.index)
		if err != nil {
			t.Fatalf("%s %s %d: %v", tt.gen.Branch(), tt.prefix, tt.index, err)
		}
		if addr.PuzzleHash != tt.puzzleHash {
			t.Errorf("%s %d puzzle hash:\n got %s\nwant %s", tt.gen.Branch(), tt.index, addr.PuzzleHash, tt.puzzleHash)
		}
		if addr.Address != tt.address {
			t.Errorf("%s %s %d address:\n got %s\nwant %s", tt.gen.Branch(), tt.prefix, tt.index, addr.Address, tt.address)
		}
	}
}

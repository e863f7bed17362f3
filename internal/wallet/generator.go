package wallet

import (
	"fmt"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/address"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/bls"
	"github.com/olehkaliuzhnyi/xch-keygen/pkg/models"
)

// HardenedGenerator generates addresses on the hardened wallet branch.
// Derivation path: m/12381'/8444'/2'/{index}'
type HardenedGenerator struct {
	intermediate bls.SecretKey
	prefix       string
}

// NewHardenedGenerator returns a generator rooted at the hardened intermediate.
func NewHardenedGenerator(intermediate bls.SecretKey, prefix string) *HardenedGenerator {
	return &HardenedGenerator{intermediate: intermediate, prefix: prefix}
}

// Branch returns models.BranchHardened.
func (g *HardenedGenerator) Branch() models.Branch {
	return models.BranchHardened
}

// Generate derives the hardened address at index.
func (g *HardenedGenerator) Generate(index uint32) (*models.DerivedAddress, error) {
	path := fmt.Sprintf("m/%d'/%d'/%d'/%d'", PurposeBLS, CoinTypeChia, AccountWallet, index)
	return encode(DeriveHardenedChild(g.intermediate, index), models.BranchHardened, path, g.prefix)
}

// UnhardenedGenerator generates addresses on the unhardened wallet branch.
// It only holds the intermediate public key, so it works for watch-only wallets.
// Derivation path: m/12381/8444/2/{index}
type UnhardenedGenerator struct {
	intermediate bls.PublicKey
	prefix       string
}

// NewUnhardenedGenerator returns a generator rooted at the unhardened intermediate.
func NewUnhardenedGenerator(intermediate bls.PublicKey, prefix string) *UnhardenedGenerator {
	return &UnhardenedGenerator{intermediate: intermediate, prefix: prefix}
}

// Branch returns models.BranchUnhardened.
func (g *UnhardenedGenerator) Branch() models.Branch {
	return models.BranchUnhardened
}

// Generate derives the unhardened address at index.
func (g *UnhardenedGenerator) Generate(index uint32) (*models.DerivedAddress, error) {
	path := fmt.Sprintf("m/%d/%d/%d/%d", PurposeBLS, CoinTypeChia, AccountWallet, index)
	return encode(DeriveUnhardenedChild(g.intermediate, index), models.BranchUnhardened, path, g.prefix)
}

// GenerateAll runs gen over indices in order and stops at the first error.
func GenerateAll(gen Generator, indices []uint32) ([]models.DerivedAddress, error) {
	out := make([]models.DerivedAddress, 0, len(indices))
	for _, index := range indices {
		addr, err := gen.Generate(index)
		if err != nil {
			return nil, fmt.Errorf("%s address %d: %w", gen.Branch(), index, err)
		}
		out = append(out, *addr)
	}
	return out, nil
}

func encode(key SyntheticKey, branch models.Branch, path, prefix string) (*models.DerivedAddress, error) {
	puzzleHash := address.StandardPuzzleHashFor(key.PublicKey)

	addr, err := address.Encode(puzzleHash, prefix)
	if err != nil {
		return nil, fmt.Errorf("encode puzzle hash: %w", err)
	}

	return &models.DerivedAddress{
		Branch:         branch,
		Index:          key.Index,
		Address:        addr,
		PuzzleHash:     puzzleHash.String(),
		DerivationPath: path,
		PublicKey:      key.PublicKey.Hex(),
	}, nil
}

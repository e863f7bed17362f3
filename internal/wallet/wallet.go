package wallet

import (
	"github.com/olehkaliuzhnyi/xch-keygen/pkg/models"
)

// Generator defines the interface for address generation per branch.
// Each branch implements this to handle its own derivation logic.
type Generator interface {
	// Branch returns which intermediate this generator derives from
	Branch() models.Branch

	// Generate derives the address at the given index
	Generate(index uint32) (*models.DerivedAddress, error)
}

package models

// Branch identifies which wallet intermediate an address was derived from.
type Branch string

// Wallet derivation branches.
const (
	BranchHardened   Branch = "hardened"
	BranchUnhardened Branch = "unhardened"
)

// DerivedAddress holds a generated address with its derivation path
type DerivedAddress struct {
	Branch         Branch `json:"branch"`
	Index          uint32 `json:"index"`
	Address        string `json:"address"`
	PuzzleHash     string `json:"puzzle_hash"`
	DerivationPath string `json:"derivation_path"`
	// PublicKey is the synthetic public key locked into the puzzle.
	PublicKey string `json:"public_key"`
}

// WalletKeys is the public summary of a derived key tree. Mnemonic is empty
// when the tree was built from a master public key alone.
type WalletKeys struct {
	Fingerprint     uint32 `json:"fingerprint"`
	Mnemonic        string `json:"-"`
	MasterPublicKey string `json:"master_public_key"`
	FarmerPublicKey string `json:"farmer_public_key,omitempty"`
	PoolPublicKey   string `json:"pool_public_key,omitempty"`
	ObserverKey     string `json:"observer_key"`
}

// ExportState is a step of the per-backend export exchange.
type ExportState string

// Export states, in the order a successful exchange visits them.
const (
	ExportIdle             ExportState = "idle"
	ExportConnecting       ExportState = "connecting"
	ExportRequesting       ExportState = "requesting"
	ExportAwaitingResponse ExportState = "awaiting_response"
	ExportCompleted        ExportState = "completed"
	ExportFailed           ExportState = "failed"
)

// ExportOutcome reports how one backend's export attempt ended.
type ExportOutcome struct {
	Backend string      `json:"backend"`
	State   ExportState `json:"state"`
	// FailedIn is the state the exchange was in when it failed.
	FailedIn    ExportState `json:"failed_in,omitempty"`
	Fingerprint *uint32     `json:"fingerprint,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Succeeded reports whether the backend acknowledged the import.
func (o ExportOutcome) Succeeded() bool {
	return o.State == ExportCompleted
}

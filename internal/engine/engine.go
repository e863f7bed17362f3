// Package engine runs one key generation pass: mnemonic, key tree, index
// enumeration, optional export, then the report the CLI prints.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/bls"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/config"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/entropy"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/export"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/index"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/input"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/mnemonic"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/wallet"
	"github.com/olehkaliuzhnyi/xch-keygen/pkg/models"
)

// ErrNoRandomSource is returned by Run when the engine was built without
// a random source.
var ErrNoRandomSource = errors.New("engine has no random source")

// Report is everything a run produced.
type Report struct {
	Keys models.WalletKeys
	// Generated is set when the mnemonic was created by this run.
	Generated  bool
	Indices    *index.Set
	Exports    []models.ExportOutcome
	Hardened   []models.DerivedAddress
	Unhardened []models.DerivedAddress
}

// Engine wires the configured sources and backends into a run.
type Engine struct {
	cfg        config.Config
	rng        *entropy.Source
	phrases    input.Source
	dispatcher *export.Dispatcher
	logger     *slog.Logger
}

// New creates an engine. rng is the run's only random source; phrases may
// be nil, in which case a mnemonic is always generated.
func New(cfg config.Config, rng *entropy.Source, phrases input.Source, dispatcher *export.Dispatcher) *Engine {
	if phrases == nil {
		phrases = input.None{}
	}
	if dispatcher == nil {
		dispatcher = export.NewDispatcher()
	}
	return &Engine{
		cfg:        cfg,
		rng:        rng,
		phrases:    phrases,
		dispatcher: dispatcher,
		logger:     slog.Default().With("component", "engine"),
	}
}

// NewDispatcher registers the Chia daemon and Sage backends described by
// cfg. A Chia config that cannot be read only disables the chia backend.
func NewDispatcher(cfg config.Config) *export.Dispatcher {
	d := export.NewDispatcher()
	d.SetTimeout(cfg.ExportTimeout)

	daemon, err := config.LoadChiaDaemon(cfg.ChiaRoot)
	if err != nil {
		d.Register(export.Unavailable(export.BackendChia, err))
	} else {
		d.Register(export.NewDaemonBackend(daemon))
	}
	d.Register(export.NewSageBackend(config.SageBackend(cfg.SageDir, cfg.Login)))

	return d
}

// Run executes the pipeline. Derivation and encoding failures abort the run;
// export failures are recorded in the report.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.rng == nil {
		return nil, ErrNoRandomSource
	}

	tree, err := e.keyTree()
	if err != nil {
		return nil, err
	}

	set, err := index.Enumerate(e.cfg.IndexParams(), rand.New(e.rng))
	if err != nil {
		return nil, err
	}
	e.logger.Debug("indices resolved", "policy", set.Policy, "count", set.Len(), "last", set.Last())

	report := &Report{
		Keys:      tree.keys,
		Generated: tree.generated,
		Indices:   set,
	}

	if tree.hardened != nil {
		report.Hardened, err = wallet.GenerateAll(tree.hardened, set.Indices)
		if err != nil {
			return nil, err
		}
	}
	report.Unhardened, err = wallet.GenerateAll(tree.unhardened, set.Indices)
	if err != nil {
		return nil, err
	}

	if len(e.cfg.Export) > 0 {
		report.Exports, err = e.export(ctx, tree.keys, set)
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}

// keyTree is the resolved key material of a run.
type keyTree struct {
	keys       models.WalletKeys
	generated  bool
	hardened   wallet.Generator
	unhardened wallet.Generator
}

func (e *Engine) keyTree() (*keyTree, error) {
	if e.cfg.ObserverMode() {
		return e.observerTree()
	}

	m, generated, err := e.mnemonic()
	if err != nil {
		return nil, err
	}
	master, err := wallet.DeriveMaster(m)
	if err != nil {
		return nil, err
	}

	branches := wallet.DeriveBranches(master)
	service := wallet.DeriveServiceKeys(master)

	return &keyTree{
		keys: models.WalletKeys{
			Fingerprint:     branches.Fingerprint,
			Mnemonic:        m.String(),
			MasterPublicKey: branches.MasterPublicKey.Hex(),
			FarmerPublicKey: service.Farmer.PublicKey().Hex(),
			PoolPublicKey:   service.Pool.PublicKey().Hex(),
			ObserverKey:     branches.Unhardened.Hex(),
		},
		generated:  generated,
		hardened:   wallet.NewHardenedGenerator(branches.Hardened, e.cfg.Prefix),
		unhardened: wallet.NewUnhardenedGenerator(branches.Unhardened, e.cfg.Prefix),
	}, nil
}

func (e *Engine) observerTree() (*keyTree, error) {
	mpk, err := bls.PublicKeyFromHex(e.cfg.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("master public key: %w", err)
	}
	observer := wallet.DeriveObserverKey(mpk)

	return &keyTree{
		keys: models.WalletKeys{
			Fingerprint:     mpk.Fingerprint(),
			MasterPublicKey: mpk.Hex(),
			ObserverKey:     observer.Hex(),
		},
		unhardened: wallet.NewUnhardenedGenerator(observer, e.cfg.Prefix),
	}, nil
}

// mnemonic parses the supplied phrase, or generates one when none could be
// read.
func (e *Engine) mnemonic() (*mnemonic.Mnemonic, bool, error) {
	phrase, err := e.phrases.Phrase()
	switch {
	case err == nil:
		m, err := mnemonic.Parse(phrase)
		if err != nil {
			return nil, false, err
		}
		return m, false, nil
	case errors.Is(err, input.ErrNoPhrase):
		if _, none := e.phrases.(input.None); !none {
			e.logger.Warn("no mnemonic supplied, generating a new one", "error", err)
		}
	default:
		return nil, false, err
	}

	m, err := mnemonic.Generate(e.rng, e.cfg.Words)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (e *Engine) export(ctx context.Context, keys models.WalletKeys, set *index.Set) ([]models.ExportOutcome, error) {
	req, err := export.BuildRequest(export.RequestOptions{
		Mnemonic:        keys.Mnemonic,
		MasterPublicKey: keys.MasterPublicKey,
		Fingerprint:     keys.Fingerprint,
		LastIndex:       set.Last(),
		Private:         e.cfg.Private,
		Named:           e.cfg.Name,
	})
	if err != nil {
		return nil, err
	}

	// An interrupt abandons the exchange in flight. Before and after the
	// export, SIGINT keeps its default behaviour.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return e.dispatcher.Dispatch(ctx, e.cfg.Export, req)
}

package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olehkaliuzhnyi/xch-keygen/pkg/models"
)

// Dispatcher runs one export exchange per requested backend.
// Backends are attempted sequentially; a failure is recorded in that
// backend's outcome and the next backend is still attempted.
type Dispatcher struct {
	backends map[string]Backend
	timeout  time.Duration
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher with no registered backends.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		backends: make(map[string]Backend),
		logger:   slog.Default().With("component", "export_dispatcher"),
	}
}

// Register registers a backend under its name.
func (d *Dispatcher) Register(b Backend) {
	d.backends[b.Name()] = b
}

// SetTimeout bounds each backend's exchange. Zero, the default, leaves only
// the caller's context in charge.
func (d *Dispatcher) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
}

// Dispatch exports req to each named backend in order, skipping repeats.
// It returns ErrNoBackends only when names is non-empty and none of them is
// registered; every other failure is reported through the outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, names []string, req Request) ([]models.ExportOutcome, error) {
	seen := make(map[string]bool, len(names))
	outcomes := make([]models.ExportOutcome, 0, len(names))
	recognized := 0

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		backend, ok := d.backends[name]
		if !ok {
			err := fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
			d.logger.Warn("skipping export backend", "backend", name, "error", err)
			outcomes = append(outcomes, failed(name, models.ExportIdle, err))
			continue
		}

		recognized++
		outcomes = append(outcomes, d.exchange(ctx, backend, req))
	}

	if len(names) > 0 && recognized == 0 {
		return outcomes, ErrNoBackends
	}
	return outcomes, nil
}

func (d *Dispatcher) exchange(ctx context.Context, b Backend, req Request) models.ExportOutcome {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	logger := d.logger.With("backend", b.Name())
	state := models.ExportIdle
	advance := func(next models.ExportState) {
		logger.Debug("export state", "from", state, "to", next)
		state = next
	}

	advance(models.ExportConnecting)
	session, err := b.Connect(ctx)
	if err != nil {
		logger.Error("export failed", "state", state, "error", err)
		return failed(b.Name(), state, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Debug("close export session", "error", err)
		}
	}()

	advance(models.ExportRequesting)
	if err := session.Send(ctx, req); err != nil {
		logger.Error("export failed", "state", state, "error", err)
		return failed(b.Name(), state, err)
	}

	advance(models.ExportAwaitingResponse)
	res, err := session.Receive(ctx)
	if err == nil && res == nil {
		err = fmt.Errorf("%w: empty result", ErrResponse)
	}
	if err != nil {
		logger.Error("export failed", "state", state, "error", err)
		return failed(b.Name(), state, err)
	}

	advance(models.ExportCompleted)
	logger.Info("key exported", "private", req.Private, "derivation_index", req.DerivationIndex)
	return models.ExportOutcome{
		Backend:     b.Name(),
		State:       models.ExportCompleted,
		Fingerprint: res.Fingerprint,
	}
}

func failed(backend string, in models.ExportState, err error) models.ExportOutcome {
	return models.ExportOutcome{
		Backend:  backend,
		State:    models.ExportFailed,
		FailedIn: in,
		Error:    err.Error(),
	}
}

// Package export hands derived key material to external wallet processes.
// Each backend runs one connect / request / response exchange and failures
// stay local to the backend that produced them.
package export

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Backend names accepted on the command line.
const (
	BackendChia = "chia"
	BackendSage = "sage"
)

var (
	// ErrUnsupportedBackend is returned for backend names nothing is registered under.
	ErrUnsupportedBackend = errors.New("unsupported export backend")
	// ErrNoBackends is returned when backends were requested but none is known.
	ErrNoBackends = errors.New("no supported export backend requested")
	// ErrTransport covers connection, TLS, handshake and I/O failures.
	ErrTransport = errors.New("export transport failure")
	// ErrResponse covers malformed and unsuccessful responses.
	ErrResponse = errors.New("export rejected")
	// ErrNoSecret is returned for a private export without a mnemonic.
	ErrNoSecret = errors.New("private export needs a mnemonic")
)

// Request is the backend-independent payload of one export.
type Request struct {
	// Label is empty unless naming was requested.
	Label string
	// Key is the mnemonic for a private export, else the master public key hex.
	Key     string
	Private bool
	// DerivationIndex is the highest enumerated index, an import hint.
	DerivationIndex uint32
	Fingerprint     uint32
}

// RequestOptions are the inputs BuildRequest draws from.
type RequestOptions struct {
	Mnemonic        string
	MasterPublicKey string
	Fingerprint     uint32
	LastIndex       uint32
	Private         bool
	Named           bool
}

// BuildRequest assembles the payload shared by all backends.
func BuildRequest(opts RequestOptions) (Request, error) {
	req := Request{
		Key:             opts.MasterPublicKey,
		Private:         opts.Private,
		DerivationIndex: opts.LastIndex,
		Fingerprint:     opts.Fingerprint,
	}
	if opts.Private {
		if opts.Mnemonic == "" {
			return Request{}, ErrNoSecret
		}
		req.Key = opts.Mnemonic
	}
	if opts.Named {
		req.Label = Label(opts.Fingerprint)
	}
	return req, nil
}

// DisplayName is the label, or the fingerprint when no label was derived.
func (r Request) DisplayName() string {
	if r.Label != "" {
		return r.Label
	}
	return strconv.FormatUint(uint64(r.Fingerprint), 10)
}

// Result is what a backend reports after a successful import.
type Result struct {
	Fingerprint *uint32
}

// Backend opens sessions to one kind of external wallet.
type Backend interface {
	// Name is the identifier users select the backend by.
	Name() string
	// Connect establishes the transport.
	Connect(ctx context.Context) (Session, error)
}

// Session carries exactly one request and one response.
type Session interface {
	Send(ctx context.Context, req Request) error
	Receive(ctx context.Context) (*Result, error)
	Close() error
}

// Unavailable returns a backend that fails to connect with err. It stands in
// for a backend whose local configuration could not be read.
func Unavailable(name string, err error) Backend {
	return unavailable{name: name, err: err}
}

type unavailable struct {
	name string
	err  error
}

func (u unavailable) Name() string { return u.name }

func (u unavailable) Connect(context.Context) (Session, error) {
	return nil, transportErr("configure "+u.name, u.err)
}

func transportErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}

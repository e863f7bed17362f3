package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	daemonDestination = "daemon"
	commandAddKey     = "add_key"
)

// DaemonConfig locates a Chia daemon's websocket endpoint and the client
// certificate it requires.
type DaemonConfig struct {
	// URL is the websocket endpoint, e.g. wss://localhost:55400.
	URL    string
	TLS    TLSFiles
	Origin string
}

// DaemonBackend imports keys through the Chia daemon's add_key command.
type DaemonBackend struct {
	cfg    DaemonConfig
	logger *slog.Logger
}

// NewDaemonBackend returns a backend for the Chia daemon described by cfg.
func NewDaemonBackend(cfg DaemonConfig) *DaemonBackend {
	if cfg.Origin == "" {
		cfg.Origin = "xchkeys"
	}
	return &DaemonBackend{
		cfg:    cfg,
		logger: slog.Default().With("component", "chia_daemon"),
	}
}

// Name returns BackendChia.
func (b *DaemonBackend) Name() string {
	return BackendChia
}

// Connect opens a mutually authenticated TLS connection and upgrades it to
// a websocket.
func (b *DaemonBackend) Connect(ctx context.Context) (Session, error) {
	tlsCfg, err := ClientTLSConfig(b.cfg.TLS)
	if err != nil {
		return nil, transportErr("tls", err)
	}

	dialer := websocket.Dialer{
		TLSClientConfig: tlsCfg,
	}
	conn, _, err := dialer.DialContext(ctx, b.cfg.URL, nil)
	if err != nil {
		return nil, transportErr("dial "+b.cfg.URL, err)
	}
	b.logger.Debug("connected to daemon", "url", b.cfg.URL)

	return &daemonSession{conn: conn, origin: b.cfg.Origin}, nil
}

type daemonSession struct {
	conn      *websocket.Conn
	origin    string
	requestID string
}

func (s *daemonSession) Send(ctx context.Context, req Request) error {
	s.requestID = uuid.NewString()

	msg := daemonRequest[addKeyCommand]{
		Ack:         false,
		Command:     commandAddKey,
		RequestID:   &s.requestID,
		Destination: daemonDestination,
		Origin:      &s.origin,
		Data:        newAddKeyCommand(req),
	}

	if dl, ok := ctx.Deadline(); ok {
		_ = s.conn.SetWriteDeadline(dl)
	}
	defer s.watch(ctx)()
	if err := s.conn.WriteJSON(msg); err != nil {
		return transportErr("write request", cause(ctx, err))
	}
	return nil
}

func (s *daemonSession) Receive(ctx context.Context) (*Result, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = s.conn.SetReadDeadline(dl)
	}
	stop := s.watch(ctx)
	_, raw, err := s.conn.ReadMessage()
	stop()
	if err != nil {
		return nil, transportErr("read response", cause(ctx, err))
	}

	var resp daemonResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrResponse, err)
	}
	if resp.RequestID != "" && resp.RequestID != s.requestID {
		return nil, fmt.Errorf("%w: response for request %s, sent %s",
			ErrResponse, resp.RequestID, s.requestID)
	}
	if !resp.Data.Success {
		return nil, fmt.Errorf("%w: %s", ErrResponse, resp.Data.errorMessage())
	}

	return &Result{Fingerprint: resp.Data.Fingerprint}, nil
}

// watch closes the connection when ctx is done before the returned stop
// function runs, so a blocked read or write returns.
func (s *daemonSession) watch(ctx context.Context) (stop func()) {
	unregister := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	return func() { unregister() }
}

// cause prefers the context's error over the one a closed connection reports.
func cause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (s *daemonSession) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := s.conn.WriteMessage(websocket.CloseMessage, msg)
	if err := s.conn.Close(); err != nil {
		return err
	}
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		return werr
	}
	return nil
}

package export

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// maxSageResponse bounds how much of a response body is read.
const maxSageResponse = 1 << 20

// SageConfig locates a Sage wallet's RPC server and its client certificate.
type SageConfig struct {
	// URL is the RPC base, e.g. https://127.0.0.1:9257.
	URL string
	TLS TLSFiles
	// Login asks Sage to switch to the imported key.
	Login bool
}

// SageBackend imports keys through Sage's import_key RPC.
type SageBackend struct {
	cfg    SageConfig
	logger *slog.Logger
}

// NewSageBackend returns a backend for the Sage RPC server described by cfg.
func NewSageBackend(cfg SageConfig) *SageBackend {
	return &SageBackend{
		cfg:    cfg,
		logger: slog.Default().With("component", "sage_rpc"),
	}
}

// Name returns BackendSage.
func (b *SageBackend) Name() string {
	return BackendSage
}

// Connect completes a TLS handshake with the RPC server, so an unreachable
// or untrusted server fails here, and then prepares an HTTP client
// presenting the wallet's client certificate.
func (b *SageBackend) Connect(ctx context.Context) (Session, error) {
	tlsCfg, err := ClientTLSConfig(b.cfg.TLS)
	if err != nil {
		return nil, transportErr("tls", err)
	}

	addr, err := hostPort(b.cfg.URL)
	if err != nil {
		return nil, transportErr("parse url", err)
	}
	dialer := &tls.Dialer{Config: tlsCfg}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, transportErr("dial "+addr, err)
	}
	_ = conn.Close()
	b.logger.Debug("reached sage rpc", "addr", addr)

	transport := &http.Transport{TLSClientConfig: tlsCfg}
	return &sageSession{
		client: &http.Client{Transport: transport},
		url:    strings.TrimRight(b.cfg.URL, "/") + "/import_key",
		login:  b.cfg.Login,
		logger: b.logger,
	}, nil
}

func hostPort(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}
	port := u.Port()
	if port == "" {
		port = "443"
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// ImportKeyRequest is the body of Sage's import_key call.
type ImportKeyRequest struct {
	Name            string  `json:"name"`
	Key             string  `json:"key"`
	DerivationIndex uint32  `json:"derivation_index"`
	Emoji           *string `json:"emoji"`
	SaveSecrets     bool    `json:"save_secrets"`
	Login           bool    `json:"login"`
}

// ImportKeyResponse is Sage's reply. Success reflects the HTTP status.
type ImportKeyResponse struct {
	Success     bool    `json:"-"`
	Fingerprint *uint32 `json:"fingerprint"`
}

type sageSession struct {
	client *http.Client
	url    string
	login  bool
	logger *slog.Logger
	resp   *http.Response
}

func (s *sageSession) Send(ctx context.Context, req Request) error {
	body, err := json.Marshal(ImportKeyRequest{
		Name:            req.DisplayName(),
		Key:             req.Key,
		DerivationIndex: req.DerivationIndex,
		SaveSecrets:     req.Private,
		Login:           s.login,
	})
	if err != nil {
		return fmt.Errorf("encode import_key: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build import_key: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return transportErr("post import_key", err)
	}
	s.logger.Debug("import_key answered", "status", resp.StatusCode)
	s.resp = resp
	return nil
}

func (s *sageSession) Receive(ctx context.Context) (*Result, error) {
	if s.resp == nil {
		return nil, fmt.Errorf("%w: no response", ErrResponse)
	}

	raw, err := io.ReadAll(io.LimitReader(s.resp.Body, maxSageResponse))
	if err != nil {
		return nil, transportErr("read import_key response", err)
	}

	out := ImportKeyResponse{Success: s.resp.StatusCode >= 200 && s.resp.StatusCode < 300}
	if !out.Success {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = s.resp.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrResponse, msg)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%w: malformed response: %v", ErrResponse, err)
		}
	}

	return &Result{Fingerprint: out.Fingerprint}, nil
}

func (s *sageSession) Close() error {
	s.client.CloseIdleConnections()
	if s.resp != nil {
		return s.resp.Body.Close()
	}
	return nil
}

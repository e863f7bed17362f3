package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/export"
)

const (
	defaultDaemonHost = "localhost"
	defaultDaemonPort = 55400
	defaultDaemonCrt  = "config/ssl/daemon/private_daemon.crt"
	defaultDaemonKey  = "config/ssl/daemon/private_daemon.key"
	defaultPrivateCA  = "config/ssl/ca/private_ca.crt"
)

// chiaConfig is the subset of <root>/config/config.yaml the daemon
// backend needs.
type chiaConfig struct {
	SelfHostname string `yaml:"self_hostname"`
	DaemonPort   int    `yaml:"daemon_port"`
	DaemonSSL    struct {
		PrivateCrt string `yaml:"private_crt"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"daemon_ssl"`
	PrivateSSLCA struct {
		Crt string `yaml:"crt"`
	} `yaml:"private_ssl_ca"`
}

// DefaultChiaRoot is $CHIA_ROOT, else ~/.chia/mainnet.
func DefaultChiaRoot() string {
	if root := os.Getenv("CHIA_ROOT"); root != "" {
		return root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".chia", "mainnet")
	}
	return filepath.Join(home, ".chia", "mainnet")
}

// LoadChiaDaemon reads the daemon endpoint and certificate paths from the
// Chia root's config.yaml. A missing file yields the stock layout; a file
// that does not parse is an error.
func LoadChiaDaemon(root string) (export.DaemonConfig, error) {
	var cc chiaConfig

	data, err := os.ReadFile(filepath.Join(root, "config", "config.yaml"))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return export.DaemonConfig{}, fmt.Errorf("chia config load: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cc); err != nil {
			return export.DaemonConfig{}, fmt.Errorf("chia config unmarshal: %w", err)
		}
	}

	host := orDefault(cc.SelfHostname, defaultDaemonHost)
	port := cc.DaemonPort
	if port == 0 {
		port = defaultDaemonPort
	}

	return export.DaemonConfig{
		URL: "wss://" + net.JoinHostPort(host, strconv.Itoa(port)),
		TLS: export.TLSFiles{
			CertFile: resolve(root, orDefault(cc.DaemonSSL.PrivateCrt, defaultDaemonCrt)),
			KeyFile:  resolve(root, orDefault(cc.DaemonSSL.PrivateKey, defaultDaemonKey)),
			CAFile:   resolve(root, orDefault(cc.PrivateSSLCA.Crt, defaultPrivateCA)),
		},
	}, nil
}

// resolve anchors a config-relative path at the Chia root.
func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/export"
)

const (
	sageAppID = "com.rigidnetwork.sage"
	sageURL   = "https://127.0.0.1:9257"
)

// DefaultSageDir is Sage's data directory under the platform data dir:
// $XDG_DATA_HOME or ~/.local/share on Linux, the user config dir elsewhere.
func DefaultSageDir() string {
	return filepath.Join(dataDir(), sageAppID)
}

func dataDir() string {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return xdg
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "share")
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

// SageBackend locates Sage's RPC endpoint and wallet client certificate.
// Sage serves its RPC with the same self-signed certificate, so it doubles
// as the CA the server is pinned to.
func SageBackend(dir string, login bool) export.SageConfig {
	return export.SageConfig{
		URL: sageURL,
		TLS: export.TLSFiles{
			CertFile: filepath.Join(dir, "ssl", "wallet.crt"),
			KeyFile:  filepath.Join(dir, "ssl", "wallet.key"),
			CAFile:   filepath.Join(dir, "ssl", "wallet.crt"),
		},
		Login: login,
	}
}

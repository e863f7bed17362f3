package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientTLSConfig(t *testing.T) {
	certFile, keyFile := writeClientCert(t)

	cfg, err := ClientTLSConfig(TLSFiles{CertFile: certFile, KeyFile: keyFile, CAFile: certFile})
	require.NoError(t, err)
	require.Len(t, cfg.Certificates, 1)
	require.NotNil(t, cfg.VerifyPeerCertificate)
}

func TestClientTLSConfig_RequiresCA(t *testing.T) {
	certFile, keyFile := writeClientCert(t)

	_, err := ClientTLSConfig(TLSFiles{CertFile: certFile, KeyFile: keyFile})
	require.ErrorContains(t, err, "no ca certificate")
}

func TestClientTLSConfig_EmptyCABundle(t *testing.T) {
	certFile, keyFile := writeClientCert(t)
	ca := filepath.Join(t.TempDir(), "ca.crt")
	require.NoError(t, os.WriteFile(ca, []byte("not a certificate"), 0o600))

	_, err := ClientTLSConfig(TLSFiles{CertFile: certFile, KeyFile: keyFile, CAFile: ca})
	require.ErrorContains(t, err, "no certificates")
}

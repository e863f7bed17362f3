package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olehkaliuzhnyi/xch-keygen/pkg/models"
)

func sampleReport() *Report {
	fp := uint32(42)
	return &Report{
		Keys: models.WalletKeys{
			Fingerprint:     3112089032,
			Mnemonic:        testPhrase,
			MasterPublicKey: "aa",
			FarmerPublicKey: "bb",
			PoolPublicKey:   "cc",
			ObserverKey:     "dd",
		},
		Exports: []models.ExportOutcome{
			{Backend: "chia", State: models.ExportFailed, FailedIn: models.ExportAwaitingResponse, Error: "export rejected: keyring is locked"},
			{Backend: "sage", State: models.ExportCompleted, Fingerprint: &fp},
		},
		Hardened: []models.DerivedAddress{
			{Index: 0, Address: "xch1hard0"},
			{Index: 1, Address: "xch1hard1"},
		},
		Unhardened: []models.DerivedAddress{
			{Index: 0, Address: "xch1soft0"},
			{Index: 1, Address: "xch1soft1"},
		},
	}
}

func TestPrint_Order(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewPrinter(true).Print(&out, sampleReport()))
	text := out.String()

	want := []string{
		"Fingerprint: 3112089032\n",
		"Mnemonic: " + testPhrase + "\n",
		"Master Public Key: aa\n",
		"Farmer Public Key: bb\n",
		"Pool Public Key: cc\n",
		"Wallet Observer Key: dd\n",
		"Export chia: failed while awaiting response: export rejected: keyring is locked\n",
		"Export sage: imported as fingerprint 42\n",
		"Hardened Address 0: xch1hard0\n",
		"Hardened Address 1: xch1hard1\n",
		"Address 0: xch1soft0\n",
		"Address 1: xch1soft1\n",
	}
	last := -1
	for _, line := range want {
		at := strings.Index(text, line)
		require.Greater(t, at, last, "%q out of order in\n%s", line, text)
		last = at
	}
	require.NotContains(t, text, "\x1b[")
}

func TestPrint_Observer(t *testing.T) {
	r := sampleReport()
	r.Keys.Mnemonic, r.Keys.FarmerPublicKey, r.Keys.PoolPublicKey = "", "", ""
	r.Hardened, r.Exports = nil, nil

	var out bytes.Buffer
	require.NoError(t, NewPrinter(true).Print(&out, r))
	text := out.String()

	require.NotContains(t, text, "Mnemonic")
	require.NotContains(t, text, "Farmer")
	require.NotContains(t, text, "Pool")
	require.NotContains(t, text, "Hardened")
	require.NotContains(t, text, "Export")
	require.Contains(t, text, "Wallet Observer Key: dd")
	require.Contains(t, text, "Address 1: xch1soft1")
}

func TestPrint_Colored(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(false)
	require.NoError(t, p.Print(&out, sampleReport()))
	require.Contains(t, out.String(), "xch1soft1")
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("disk full")
}

func TestPrint_WriteError(t *testing.T) {
	w := &failingWriter{}
	err := NewPrinter(true).Print(w, sampleReport())
	require.EqualError(t, err, "disk full")
	require.Equal(t, 1, w.n)
}

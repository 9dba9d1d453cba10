package inscription

import (
	"bytes"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

var (
	testKeyHex  = strings.Repeat("01", 32)
	testTxID    = strings.Repeat("ab", 32)
	testNetwork = &chaincfg.TestNet3Params
)

// pngBody returns a body of n bytes that sniffs as image/png.
func pngBody(n int) []byte {
	body := make([]byte, n)
	copy(body, []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a})
	for i := 8; i < n; i++ {
		body[i] = byte(i * 7)
	}
	return body
}

// taprootAddress returns a fresh key path address on params.
func taprootAddress(t *testing.T, params *chaincfg.Params) string {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(priv.PubKey()), params)
	require.NoError(t, err)
	return addr.String()
}

func repeatText(s string, n int) []byte {
	return bytes.Repeat([]byte(s), n)
}

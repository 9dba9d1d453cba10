package client

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btclog"
	"github.com/gin-gonic/gin"
	"github.com/inscription-c/ordinscribe/constants"
	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/ledger/dao"
	"github.com/inscription-c/ordinscribe/inscription/ledger/tables"
	"github.com/inscription-c/ordinscribe/inscription/server/handle"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testTxID = "cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd"

var (
	clientDBSeq atomic.Uint64
	testNetwork = &chaincfg.TestNet3Params
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := dao.NewDB(
		dao.WithDriver(constants.DBDriverSqlite),
		dao.WithSqliteFile(fmt.Sprintf("file:client%d?mode=memory&cache=shared", clientDBSeq.Add(1))),
		dao.WithLogger(btclog.Disabled),
		dao.WithAutoMigrateTables(tables.Tables...),
	)
	require.NoError(t, err)
	s, err := inscription.New(inscription.WithLedger(db), inscription.WithParams(testNetwork))
	require.NoError(t, err)
	h, err := handle.New(handle.WithInscriber(s))
	require.NoError(t, err)

	srv := httptest.NewServer(h.Engine())
	t.Cleanup(func() {
		srv.Close()
		_ = db.Close()
	})
	c, err := New(WithHost(srv.URL + "/"))
	require.NoError(t, err)
	return c
}

func recipient(t *testing.T) string {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(priv.PubKey()), testNetwork)
	require.NoError(t, err)
	return addr.String()
}

func TestNewValidatesHost(t *testing.T) {
	_, err := New()
	require.Error(t, err)
	_, err = New(WithHost("not a url"))
	require.Error(t, err)
	_, err = New(WithHost("http://localhost:8335"))
	require.NoError(t, err)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	file := []byte("hello from the client")

	commit, err := c.CreateCommit(ctx, &CommitParams{
		File:             file,
		FeeRate:          2.5,
		RecipientAddress: recipient(t),
		MetadataJSON:     []byte(`{"name":"greeting"}`),
	})
	require.NoError(t, err)
	require.Equal(t, constants.ContentTypeTextPlainUtf8.String(), commit.FileContentType)
	require.Equal(t, int64(len(file)), commit.FileSize)

	reveal, err := c.CreateReveal(ctx, &RevealParams{
		InscriptionID: commit.InscriptionID,
		File:          file,
		CommitTxID:    testTxID,
		Vout:          2,
		Amount:        5000,
	})
	require.NoError(t, err)
	require.Equal(t, commit.CommitAddress, reveal.DerivedCommitAddress)
	require.Equal(t, int64(5000)-commit.RequiredAmountSats, reveal.OutputAmountSats)

	q, err := c.Inscription(ctx, commit.InscriptionID)
	require.NoError(t, err)
	require.Equal(t, "reveal_ready", q.Status)

	q, err = c.UpdateStatus(ctx, commit.InscriptionID, "failed")
	require.NoError(t, err)
	require.Equal(t, "failed", q.Status)
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Inscription(ctx, 99)
	require.True(t, errors.Is(err, inscription.ErrNotFound), "got %v", err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, api.CodeNotFound, apiErr.Code)
	require.Equal(t, 404, apiErr.Status)

	_, err = c.CreateCommit(ctx, &CommitParams{File: []byte("x"), FeeRate: -1, RecipientAddress: recipient(t)})
	require.True(t, errors.Is(err, inscription.ErrInvalidFeeRate), "got %v", err)

	_, err = c.CreateReveal(ctx, &RevealParams{InscriptionID: 1, File: []byte("x"), CommitTxID: "xyz", Amount: 1000})
	require.True(t, errors.Is(err, inscription.ErrInvalidOutpoint), "got %v", err)
}

package dao

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/inscription-c/ordinscribe/constants"
	"github.com/inscription-c/ordinscribe/inscription/ledger/tables"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var memDBSeq atomic.Uint64

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ledger%d?mode=memory&cache=shared", memDBSeq.Add(1))
	db, err := NewDB(
		WithDriver(constants.DBDriverSqlite),
		WithSqliteFile(dsn),
		WithLogger(btclog.Disabled),
		WithAutoMigrateTables(tables.Tables...),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func newPending(t *testing.T, db *DB) *tables.Inscriptions {
	t.Helper()
	ins := &tables.Inscriptions{
		TempPrivateKey:   strings.Repeat("11", 32),
		Address:          "tb1pexample",
		RequiredAmount:   488,
		FileSize:         1000,
		RecipientAddress: "tb1qrecipient",
		FeeRate:          1.5,
		ContentType:      "image/png",
		Status:           tables.StatusCompleted,
		Version:          9,
	}
	require.NoError(t, db.CreateInscription(ins))
	require.NotZero(t, ins.Id)
	return ins
}

func TestCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ins := newPending(t, db)

	got, err := db.GetInscription(ins.Id)
	require.NoError(t, err)
	require.Equal(t, tables.StatusPending, got.Status)
	require.Equal(t, uint64(1), got.Version)
	require.Equal(t, int64(488), got.RequiredAmount)
	require.Equal(t, 1.5, got.FeeRate)
	require.Nil(t, got.CommitTxId)
	require.Nil(t, got.RevealTxHex)
	require.False(t, got.CreatedAt.IsZero())

	_, err = db.GetInscription(ins.Id + 100)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestAttachReveal(t *testing.T) {
	db := newTestDB(t)
	ins := newPending(t, db)

	_, err := db.AttachReveal(ins.Id+100, "aa", "bb")
	require.True(t, errors.Is(err, ErrNotFound))

	got, err := db.AttachReveal(ins.Id, strings.Repeat("a", 64), "0200")
	require.NoError(t, err)
	require.Equal(t, tables.StatusRevealReady, got.Status)
	require.Equal(t, uint64(2), got.Version)
	require.Equal(t, strings.Repeat("a", 64), *got.CommitTxId)

	// last write wins while the reveal has not been broadcast
	got, err = db.AttachReveal(ins.Id, strings.Repeat("b", 64), "0201")
	require.NoError(t, err)
	require.Equal(t, "0201", *got.RevealTxHex)
	require.Equal(t, uint64(3), got.Version)

	_, err = db.UpdateStatus(ins.Id, tables.StatusBroadcast)
	require.NoError(t, err)
	_, err = db.AttachReveal(ins.Id, strings.Repeat("c", 64), "0202")
	require.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestAttachRevealVersion(t *testing.T) {
	db := newTestDB(t)
	ins := newPending(t, db)

	got, err := db.AttachRevealVersion(ins.Id, 1, strings.Repeat("a", 64), "0200")
	require.NoError(t, err)
	require.Equal(t, uint64(2), got.Version)

	_, err = db.AttachRevealVersion(ins.Id, 1, strings.Repeat("b", 64), "0201")
	require.True(t, errors.Is(err, ErrConflict))

	got, err = db.GetInscription(ins.Id)
	require.NoError(t, err)
	require.Equal(t, "0200", *got.RevealTxHex)
}

func TestAttachRevealVersionRace(t *testing.T) {
	db := newTestDB(t)
	ins := newPending(t, db)

	const writers = 8
	var won atomic.Int32
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		i := i
		g.Go(func() error {
			_, err := db.AttachRevealVersion(ins.Id, 1, strings.Repeat("a", 64), fmt.Sprintf("02%02x", i))
			if err == nil {
				won.Add(1)
				return nil
			}
			if errors.Is(err, ErrConflict) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), won.Load())

	got, err := db.GetInscription(ins.Id)
	require.NoError(t, err)
	require.Equal(t, uint64(2), got.Version)
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	ins := newPending(t, db)

	_, err := db.UpdateStatus(ins.Id, tables.StatusBroadcast)
	require.True(t, errors.Is(err, ErrInvalidTransition), "broadcast needs a reveal")

	_, err = db.UpdateStatus(ins.Id, tables.StatusRevealReady)
	require.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = db.UpdateStatus(ins.Id, tables.Status("confirmed"))
	require.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = db.AttachReveal(ins.Id, strings.Repeat("a", 64), "0200")
	require.NoError(t, err)

	got, err := db.UpdateStatus(ins.Id, tables.StatusBroadcast)
	require.NoError(t, err)
	require.Equal(t, tables.StatusBroadcast, got.Status)

	got, err = db.UpdateStatus(ins.Id, tables.StatusBroadcast)
	require.NoError(t, err)
	require.Equal(t, tables.StatusBroadcast, got.Status)

	got, err = db.UpdateStatus(ins.Id, tables.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, tables.StatusCompleted, got.Status)

	_, err = db.UpdateStatus(ins.Id, tables.StatusFailed)
	require.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = db.UpdateStatus(ins.Id+100, tables.StatusFailed)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateStatusFailedFromPending(t *testing.T) {
	db := newTestDB(t)
	ins := newPending(t, db)

	got, err := db.UpdateStatus(ins.Id, tables.StatusFailed)
	require.NoError(t, err)
	require.Equal(t, tables.StatusFailed, got.Status)

	_, err = db.AttachReveal(ins.Id, strings.Repeat("a", 64), "0200")
	require.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to tables.Status
		want     bool
	}{
		{tables.StatusPending, tables.StatusRevealReady, true},
		{tables.StatusRevealReady, tables.StatusPending, false},
		{tables.StatusBroadcast, tables.StatusCompleted, true},
		{tables.StatusCompleted, tables.StatusBroadcast, false},
		{tables.StatusBroadcast, tables.StatusFailed, true},
		{tables.StatusFailed, tables.StatusCompleted, false},
		{tables.StatusCompleted, tables.StatusFailed, false},
		{tables.StatusPending, tables.Status("bogus"), false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

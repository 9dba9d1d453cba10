package dao

import (
	"github.com/inscription-c/ordinscribe/inscription/ledger/tables"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no inscription exists for an id.
	ErrNotFound = errors.New("inscription not found")
	// ErrConflict is returned when a versioned write lost the race against
	// another writer of the same record.
	ErrConflict = errors.New("inscription version conflict")
	// ErrInvalidTransition is returned for status writes that would move a
	// record backwards or out of a terminal status.
	ErrInvalidTransition = errors.New("invalid inscription status transition")
)

// CreateInscription inserts a new record. Status and version always start at
// pending and 1 regardless of what the caller set.
func (d *DB) CreateInscription(ins *tables.Inscriptions) error {
	ins.Status = tables.StatusPending
	ins.Version = 1
	ins.CommitTxId = nil
	ins.RevealTxHex = nil
	return d.DB.Create(ins).Error
}

// GetInscription loads one record by id.
func (d *DB) GetInscription(id uint64) (*tables.Inscriptions, error) {
	ins := &tables.Inscriptions{}
	err := d.Where("id = ?", id).First(ins).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	if err != nil {
		return nil, err
	}
	return ins, nil
}

// AttachReveal stores the commit txid and signed reveal hex and moves the
// record to reveal_ready. Calling it again before broadcast overwrites the
// previous values.
func (d *DB) AttachReveal(id uint64, commitTxId, revealTxHex string) (*tables.Inscriptions, error) {
	return d.attachReveal(id, 0, commitTxId, revealTxHex)
}

// AttachRevealVersion is AttachReveal guarded by the version the caller read.
// A stale version fails with ErrConflict and leaves the record untouched.
func (d *DB) AttachRevealVersion(id, version uint64, commitTxId, revealTxHex string) (*tables.Inscriptions, error) {
	if version == 0 {
		return nil, errors.Wrap(ErrConflict, "version must be positive")
	}
	return d.attachReveal(id, version, commitTxId, revealTxHex)
}

func (d *DB) attachReveal(id, version uint64, commitTxId, revealTxHex string) (ins *tables.Inscriptions, err error) {
	err = d.Transaction(func(tx *DB) error {
		cur, err := tx.GetInscription(id)
		if err != nil {
			return err
		}
		if cur.Status != tables.StatusPending && cur.Status != tables.StatusRevealReady {
			return errors.Wrapf(ErrInvalidTransition, "id %d is %s", id, cur.Status)
		}
		if version > 0 && cur.Version != version {
			return errors.Wrapf(ErrConflict, "id %d at version %d, got %d", id, cur.Version, version)
		}

		q := tx.Model(&tables.Inscriptions{}).
			Where("id = ?", id).
			Where("status IN ?", []tables.Status{tables.StatusPending, tables.StatusRevealReady})
		if version > 0 {
			q = q.Where("version = ?", version)
		}
		res := q.Updates(map[string]interface{}{
			"commit_tx_id":  commitTxId,
			"reveal_tx_hex": revealTxHex,
			"status":        tables.StatusRevealReady,
			"version":       gorm.Expr("version + ?", 1),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrConflict, "id %d changed concurrently", id)
		}
		ins, err = tx.GetInscription(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ins, nil
}

// UpdateStatus records a status reported by whoever broadcasts the reveal
// transaction. Only broadcast, completed and failed are accepted, records
// never move backwards and writing the current status is a no-op.
func (d *DB) UpdateStatus(id uint64, status tables.Status) (ins *tables.Inscriptions, err error) {
	switch status {
	case tables.StatusBroadcast, tables.StatusCompleted, tables.StatusFailed:
	default:
		return nil, errors.Wrapf(ErrInvalidTransition, "status %q can not be set externally", status)
	}

	err = d.Transaction(func(tx *DB) error {
		cur, err := tx.GetInscription(id)
		if err != nil {
			return err
		}
		if cur.Status == status {
			ins = cur
			return nil
		}
		if !cur.Status.CanTransition(status) {
			return errors.Wrapf(ErrInvalidTransition, "id %d %s -> %s", id, cur.Status, status)
		}
		if status != tables.StatusFailed && cur.RevealTxHex == nil {
			return errors.Wrapf(ErrInvalidTransition, "id %d has no reveal transaction", id)
		}

		res := tx.Model(&tables.Inscriptions{}).
			Where("id = ? AND status = ?", id, cur.Status).
			Updates(map[string]interface{}{
				"status":  status,
				"version": gorm.Expr("version + ?", 1),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrConflict, "id %d changed concurrently", id)
		}
		ins, err = tx.GetInscription(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ins, nil
}

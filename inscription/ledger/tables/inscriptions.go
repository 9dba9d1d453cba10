package tables

import (
	"time"
)

// Status is the lifecycle state of an inscription record.
type Status string

const (
	StatusPending     Status = "pending"
	StatusRevealReady Status = "reveal_ready"
	StatusBroadcast   Status = "broadcast"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

var statusRank = map[Status]int{
	StatusPending:     0,
	StatusRevealReady: 1,
	StatusBroadcast:   2,
	StatusCompleted:   3,
	StatusFailed:      4,
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a record in status s may be moved to next.
// Records only move forward; failed is reachable from every non-terminal
// status. Writing the current status again is allowed.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// Inscriptions is one commit/reveal pair tracked from commit address
// derivation until the reveal transaction is handed out.
//
// TempPrivateKey is stored in clear text: the reveal step must rebuild the
// exact commit script from it. Anyone able to read this table can spend
// every funded commit output that has not been revealed yet, so the store
// must be access controlled.
type Inscriptions struct {
	Id               uint64    `gorm:"column:id;primaryKey;autoIncrement;NOT NULL"`
	TempPrivateKey   string    `gorm:"column:temp_private_key;type:varchar(64);NOT NULL"`
	Address          string    `gorm:"column:address;type:varchar(255);index:idx_address;NOT NULL"`
	RequiredAmount   int64     `gorm:"column:required_amount;type:bigint;NOT NULL"`
	FileSize         int64     `gorm:"column:file_size;type:bigint;NOT NULL"`
	RecipientAddress string    `gorm:"column:recipient_address;type:varchar(255);NOT NULL"`
	FeeRate          float64   `gorm:"column:fee_rate;type:double;NOT NULL"`
	ContentType      string    `gorm:"column:content_type;type:varchar(255);default:'';NOT NULL"`
	ContentEncoding  string    `gorm:"column:content_encoding;type:varchar(32);default:'';NOT NULL"`
	Metadata         []byte    `gorm:"column:metadata;type:blob"`
	CommitTxId       *string   `gorm:"column:commit_tx_id;type:varchar(64)"`
	RevealTxHex      *string   `gorm:"column:reveal_tx_hex;type:mediumtext"`
	Status           Status    `gorm:"column:status;type:varchar(32);index:idx_status;default:'pending';NOT NULL"`
	Version          uint64    `gorm:"column:version;type:bigint unsigned;default:1;NOT NULL"`
	CreatedAt        time.Time `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP;NOT NULL"`
	UpdatedAt        time.Time `gorm:"column:updated_at;type:datetime;default:CURRENT_TIMESTAMP;NOT NULL"`
}

func (i *Inscriptions) TableName() string {
	return "inscriptions"
}

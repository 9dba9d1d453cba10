package inscription

import (
	"github.com/inscription-c/ordinscribe/inscription/ledger/dao"
	"github.com/pkg/errors"
)

var (
	ErrInvalidKeyEncoding = errors.New("invalid private key encoding")
	ErrInvalidFeeRate     = errors.New("invalid fee rate")
	ErrInvalidAddress     = errors.New("invalid recipient address")
	ErrDustOutput         = errors.New("reveal output below dust limit")
	ErrSigningFailure     = errors.New("reveal signing failure")
	ErrInvalidOutpoint    = errors.New("invalid funding outpoint")
	ErrInvalidAmount      = errors.New("funding amount out of range")
	ErrTxTooLarge         = errors.New("reveal transaction exceeds standard weight")
	ErrCommitMismatch     = errors.New("derived commit address does not match record")
	ErrCompression        = errors.New("brotli round trip failed")
	ErrInvalidMetadata    = errors.New("invalid inscription metadata")
	ErrInvalidEnvelope    = errors.New("malformed inscription envelope")

	// Ledger errors live next to the store; these aliases let callers of
	// this package match them without importing dao.
	ErrNotFound          = dao.ErrNotFound
	ErrConflict          = dao.ErrConflict
	ErrInvalidTransition = dao.ErrInvalidTransition
)

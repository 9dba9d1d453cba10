package client

import (
	"fmt"

	"github.com/inscription-c/ordinscribe/inscription"
	"github.com/inscription-c/ordinscribe/inscription/server/handle/api"
)

var codeErrors = map[api.Code]error{
	api.CodeInvalidKeyEncoding: inscription.ErrInvalidKeyEncoding,
	api.CodeInvalidFeeRate:     inscription.ErrInvalidFeeRate,
	api.CodeInvalidAddress:     inscription.ErrInvalidAddress,
	api.CodeDustOutput:         inscription.ErrDustOutput,
	api.CodeInvalidOutpoint:    inscription.ErrInvalidOutpoint,
	api.CodeCommitMismatch:     inscription.ErrCommitMismatch,
	api.CodeInvalidMetadata:    inscription.ErrInvalidMetadata,
	api.CodeSigningFailure:     inscription.ErrSigningFailure,
	api.CodeTxTooLarge:         inscription.ErrTxTooLarge,
	api.CodeInvalidAmount:      inscription.ErrInvalidAmount,
	api.CodeNotFound:           inscription.ErrNotFound,
	api.CodeConflict:           inscription.ErrConflict,
	api.CodeInvalidTransition:  inscription.ErrInvalidTransition,
}

// Error is a non zero err_no returned by the server. It unwraps to the
// matching inscription error so callers can use errors.Is.
type Error struct {
	Status int
	Code   api.Code
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d (http %d): %s", e.Code, e.Status, e.Msg)
}

func (e *Error) Unwrap() error {
	return codeErrors[e.Code]
}

package api

type Code = int

// common
const (
	CodeSuccess        Code = 0
	CodeError500       Code = 500
	CodeParamsInvalid  Code = 10000
	CodeMethodNotExist Code = 10001
	CodeDbError        Code = 10002
	CodeFileTooLarge   Code = 10003
)

// inscription
const (
	CodeInvalidKeyEncoding Code = 20001
	CodeInvalidFeeRate     Code = 20002
	CodeInvalidAddress     Code = 20003
	CodeDustOutput         Code = 20004
	CodeInvalidOutpoint    Code = 20005
	CodeCommitMismatch     Code = 20006
	CodeInvalidMetadata    Code = 20007
	CodeSigningFailure     Code = 20008
	CodeTxTooLarge         Code = 20009
	CodeInvalidAmount      Code = 20010
)

// ledger
const (
	CodeNotFound          Code = 30001
	CodeConflict          Code = 30002
	CodeInvalidTransition Code = 30003
)

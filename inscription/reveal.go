package inscription

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/inscription-c/ordinscribe/constants"
	"github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/inscription-c/ordinscribe/internal/util"
	"github.com/pkg/errors"
)

const (
	revealTxVersion  = 2
	revealTxSequence = 0xfffffffd

	// maxStandardTxWeight is the relay policy limit for a single transaction.
	maxStandardTxWeight = blockchain.MaxBlockWeight / 10
)

// RevealRequest carries everything needed to spend a funded commit output.
type RevealRequest struct {
	Key      *KeyPair
	Envelope *Envelope
	Params   *chaincfg.Params

	FundingTxID   string
	FundingIndex  uint32
	FundingAmount int64

	RecipientAddress string
	FeeRate          float64
}

// RevealResult is a fully signed reveal transaction.
type RevealResult struct {
	Hex          string
	Tx           *wire.MsgTx
	Commit       *CommitOutput
	Fee          int64
	OutputAmount int64
}

// BuildReveal re-derives the commit output from the key and envelope, then
// builds and signs the transaction spending it to the recipient through the
// envelope leaf. It either returns a transaction that passes script
// verification or an error, never a partial transaction.
func BuildReveal(req *RevealRequest) (*RevealResult, error) {
	if req.Key == nil || req.Key.PrivateKey == nil {
		return nil, errors.Wrap(ErrInvalidKeyEncoding, "missing key")
	}
	if req.Envelope == nil {
		return nil, errors.Wrap(ErrInvalidEnvelope, "missing envelope")
	}
	if req.Params == nil {
		return nil, errors.New("missing network params")
	}

	if req.FundingAmount <= 0 || req.FundingAmount > btcutil.MaxSatoshi {
		return nil, errors.Wrapf(ErrInvalidAmount, "%d sats", req.FundingAmount)
	}

	commit, err := DeriveCommit(req.Key.PubKey, req.Envelope, req.Params)
	if err != nil {
		return nil, err
	}

	quote, err := EstimateFee(len(req.Envelope.Body), req.FeeRate)
	if err != nil {
		return nil, err
	}
	outputAmount := req.FundingAmount - quote.RequiredAmount
	if outputAmount < constants.DustLimit {
		return nil, errors.Wrapf(ErrDustOutput, "funding %d - fee %d = %d < %d",
			req.FundingAmount, quote.RequiredAmount, outputAmount, constants.DustLimit)
	}

	fundingHash, err := parseTxID(req.FundingTxID)
	if err != nil {
		return nil, err
	}

	recipientScript, err := util.AddressScript(req.RecipientAddress, req.Params)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}

	tx := wire.NewMsgTx(revealTxVersion)
	in := wire.NewTxIn(wire.NewOutPoint(fundingHash, req.FundingIndex), nil, nil)
	in.Sequence = revealTxSequence
	tx.AddTxIn(in)
	tx.AddTxOut(wire.NewTxOut(outputAmount, recipientScript))

	fetcher := txscript.NewCannedPrevOutputFetcher(commit.PkScript, req.FundingAmount)
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)
	if err := signReveal(tx, sigHashes, commit, req.Key, req.FundingAmount); err != nil {
		return nil, err
	}
	if weight := blockchain.GetTransactionWeight(btcutil.NewTx(tx)); weight > maxStandardTxWeight {
		return nil, errors.Wrapf(ErrTxTooLarge, "weight %d > %d", weight, maxStandardTxWeight)
	}
	if err := verifyReveal(tx, sigHashes, fetcher, commit, req.FundingAmount); err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, tx.SerializeSize()))
	if err := tx.Serialize(buf); err != nil {
		return nil, errors.Wrap(err, "serialize reveal tx")
	}

	log.Log.Debugf("reveal tx %s spends %s:%d, fee %d, output %d",
		tx.TxHash(), fundingHash, req.FundingIndex, quote.RequiredAmount, outputAmount)
	log.Log.Tracef("reveal tx: %v", log.NewClosure(func() string {
		return spew.Sdump(tx)
	}))

	return &RevealResult{
		Hex:          hex.EncodeToString(buf.Bytes()),
		Tx:           tx,
		Commit:       commit,
		Fee:          quote.RequiredAmount,
		OutputAmount: outputAmount,
	}, nil
}

func parseTxID(txid string) (*chainhash.Hash, error) {
	if len(txid) != chainhash.MaxHashStringSize {
		return nil, errors.Wrapf(ErrInvalidOutpoint, "txid must be %d hex chars", chainhash.MaxHashStringSize)
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidOutpoint, err.Error())
	}
	return hash, nil
}

// signReveal adds the script path witness to the single input.
func signReveal(tx *wire.MsgTx, sigHashes *txscript.TxSigHashes, commit *CommitOutput, key *KeyPair, fundingAmount int64) error {
	sig, err := txscript.RawTxInTapscriptSignature(
		tx, sigHashes, 0, fundingAmount, commit.PkScript, commit.Leaf,
		txscript.SigHashDefault, key.PrivateKey,
	)
	if err != nil {
		return errors.Wrap(ErrSigningFailure, err.Error())
	}
	tx.TxIn[0].Witness = wire.TxWitness{sig, commit.Script, commit.ControlBlock}
	return nil
}

// verifyReveal runs the script engine over the signed input.
func verifyReveal(tx *wire.MsgTx, sigHashes *txscript.TxSigHashes, fetcher txscript.PrevOutputFetcher,
	commit *CommitOutput, fundingAmount int64) error {

	engine, err := txscript.NewEngine(
		commit.PkScript, tx, 0, txscript.StandardVerifyFlags, nil,
		sigHashes, fundingAmount, fetcher,
	)
	if err != nil {
		return errors.Wrap(ErrSigningFailure, err.Error())
	}
	if err := engine.Execute(); err != nil {
		return errors.Wrap(ErrSigningFailure, err.Error())
	}
	return nil
}

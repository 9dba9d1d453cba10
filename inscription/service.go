package inscription

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/dustin/go-humanize"
	"github.com/inscription-c/ordinscribe/constants"
	"github.com/inscription-c/ordinscribe/inscription/ledger/tables"
	"github.com/inscription-c/ordinscribe/inscription/log"
	"github.com/inscription-c/ordinscribe/internal/util"
	"github.com/pkg/errors"
)

// Ledger persists inscriptions. *dao.DB implements it.
type Ledger interface {
	CreateInscription(ins *tables.Inscriptions) error
	GetInscription(id uint64) (*tables.Inscriptions, error)
	AttachReveal(id uint64, commitTxId, revealTxHex string) (*tables.Inscriptions, error)
	AttachRevealVersion(id, version uint64, commitTxId, revealTxHex string) (*tables.Inscriptions, error)
	UpdateStatus(id uint64, status tables.Status) (*tables.Inscriptions, error)
}

type Options struct {
	ledger Ledger
	params *chaincfg.Params
}

type Option func(*Options)

func WithLedger(ledger Ledger) Option {
	return func(o *Options) {
		o.ledger = ledger
	}
}

func WithParams(params *chaincfg.Params) Option {
	return func(o *Options) {
		o.params = params
	}
}

// Inscriber runs the commit and reveal steps against a ledger.
type Inscriber struct {
	options *Options
}

func New(opts ...Option) (*Inscriber, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.ledger == nil {
		return nil, errors.New("ledger is nil")
	}
	if options.params == nil {
		options.params = &chaincfg.MainNetParams
	}
	return &Inscriber{options: options}, nil
}

// Params returns the network the inscriber derives addresses for.
func (s *Inscriber) Params() *chaincfg.Params {
	return s.options.params
}

type CreateCommitRequest struct {
	File                  []byte
	FeeRate               float64
	RecipientAddress      string
	ExistingPrivateKeyHex string
	ContentType           string
	Compress              bool
	MetadataJSON          []byte
}

type CreateCommitResponse struct {
	InscriptionID      uint64 `json:"inscriptionId"`
	FileSize           int64  `json:"fileSize"`
	TempPrivateKeyHex  string `json:"tempPrivateKey"`
	CommitAddress      string `json:"address"`
	RequiredAmountSats int64  `json:"requiredAmount"`
	FileContentType    string `json:"fileContentType"`
}

// CreateCommit derives the address the caller has to fund and records a
// pending inscription for it.
func (s *Inscriber) CreateCommit(req *CreateCommitRequest) (*CreateCommitResponse, error) {
	params := s.options.params
	if _, err := EstimateFee(0, req.FeeRate); err != nil {
		return nil, err
	}
	if _, err := util.DecodeAddress(req.RecipientAddress, params); err != nil {
		return nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}

	opts := []EncodeOption{
		WithContentType(req.ContentType),
		WithCompress(req.Compress),
	}
	if len(req.MetadataJSON) > 0 {
		metadata, err := MetadataFromJSON(req.MetadataJSON)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithMetadata(metadata))
	}
	envelope, err := Encode(req.File, opts...)
	if err != nil {
		return nil, err
	}

	key, err := IssueKey(req.ExistingPrivateKeyHex)
	if err != nil {
		return nil, err
	}
	commit, err := DeriveCommit(key.PubKey, envelope, params)
	if err != nil {
		return nil, err
	}
	quote, err := EstimateFee(len(envelope.Body), req.FeeRate)
	if err != nil {
		return nil, err
	}

	ins := &tables.Inscriptions{
		TempPrivateKey:   key.PrivateKeyHex(),
		Address:          commit.Address.String(),
		RequiredAmount:   quote.RequiredAmount,
		FileSize:         int64(len(req.File)),
		RecipientAddress: req.RecipientAddress,
		FeeRate:          req.FeeRate,
		ContentType:      envelope.ContentType.String(),
		ContentEncoding:  envelope.ContentEncoding,
		Metadata:         envelope.Metadata,
	}
	if err := s.options.ledger.CreateInscription(ins); err != nil {
		return nil, errors.Wrap(err, "create inscription")
	}

	log.Log.Infof("inscription %d: commit %s, %s %s (%s), fee %d sats",
		ins.Id, ins.Address, humanize.Bytes(uint64(len(req.File))),
		envelope.ContentType, envelope.Detection.Kind, quote.RequiredAmount)

	return &CreateCommitResponse{
		InscriptionID:      ins.Id,
		FileSize:           ins.FileSize,
		TempPrivateKeyHex:  ins.TempPrivateKey,
		CommitAddress:      ins.Address,
		RequiredAmountSats: ins.RequiredAmount,
		FileContentType:    ins.ContentType,
	}, nil
}

type CreateRevealRequest struct {
	InscriptionID     uint64
	File              []byte
	CommitTxID        string
	OutputIndex       uint32
	FundingAmountSats int64

	// Version, when non zero, turns the ledger write into a compare and
	// swap against the version the caller last read.
	Version uint64
}

type CreateRevealResponse struct {
	RevealTxHex          string `json:"revealTxHex"`
	DerivedCommitAddress string `json:"derivedCommitAddress"`
	PublicKeyHex         string `json:"publicKey"`
	OutputAmountSats     int64  `json:"outputAmount"`
	FeeSats              int64  `json:"fee"`
	Version              uint64 `json:"version"`
}

// CreateReveal rebuilds the commit output from the stored key and the
// re-uploaded file, signs the reveal transaction and stores it.
//
// Anyone knowing an inscription id can ask for its reveal; the request is
// not tied to whoever created the commit.
func (s *Inscriber) CreateReveal(req *CreateRevealRequest) (*CreateRevealResponse, error) {
	params := s.options.params
	rec, err := s.options.ledger.GetInscription(req.InscriptionID)
	if err != nil {
		return nil, err
	}

	key, err := IssueKey(rec.TempPrivateKey)
	if err != nil {
		return nil, err
	}
	envelope, err := Encode(req.File,
		WithContentType(rec.ContentType),
		WithCompress(rec.ContentEncoding == constants.ContentEncodingBrotli),
		WithMetadata(rec.Metadata),
	)
	if err != nil {
		return nil, err
	}

	commit, err := DeriveCommit(key.PubKey, envelope, params)
	if err != nil {
		return nil, err
	}
	if commit.Address.String() != rec.Address {
		return nil, errors.Wrapf(ErrCommitMismatch, "inscription %d expects %s, file derives %s",
			rec.Id, rec.Address, commit.Address)
	}

	result, err := BuildReveal(&RevealRequest{
		Key:              key,
		Envelope:         envelope,
		Params:           params,
		FundingTxID:      req.CommitTxID,
		FundingIndex:     req.OutputIndex,
		FundingAmount:    req.FundingAmountSats,
		RecipientAddress: rec.RecipientAddress,
		FeeRate:          rec.FeeRate,
	})
	if err != nil {
		return nil, err
	}

	var updated *tables.Inscriptions
	if req.Version > 0 {
		updated, err = s.options.ledger.AttachRevealVersion(rec.Id, req.Version, req.CommitTxID, result.Hex)
	} else {
		updated, err = s.options.ledger.AttachReveal(rec.Id, req.CommitTxID, result.Hex)
	}
	if err != nil {
		return nil, err
	}

	log.Log.Infof("inscription %d: reveal %s ready, output %d sats to %s",
		rec.Id, result.Tx.TxHash(), result.OutputAmount, rec.RecipientAddress)

	return &CreateRevealResponse{
		RevealTxHex:          result.Hex,
		DerivedCommitAddress: commit.Address.String(),
		PublicKeyHex:         key.PublicKeyHex(),
		OutputAmountSats:     result.OutputAmount,
		FeeSats:              result.Fee,
		Version:              updated.Version,
	}, nil
}

type QueryResponse struct {
	ID                 uint64    `json:"id"`
	CommitAddress      string    `json:"address"`
	RequiredAmountSats int64     `json:"requiredAmount"`
	Status             string    `json:"status"`
	CommitTxID         *string   `json:"commitTxId"`
	CreatedAt          time.Time `json:"createdAt"`
	Version            uint64    `json:"version"`
}

func newQueryResponse(ins *tables.Inscriptions) *QueryResponse {
	return &QueryResponse{
		ID:                 ins.Id,
		CommitAddress:      ins.Address,
		RequiredAmountSats: ins.RequiredAmount,
		Status:             ins.Status.String(),
		CommitTxID:         ins.CommitTxId,
		CreatedAt:          ins.CreatedAt,
		Version:            ins.Version,
	}
}

// Query returns the public view of one inscription. The key is left out.
func (s *Inscriber) Query(id uint64) (*QueryResponse, error) {
	ins, err := s.options.ledger.GetInscription(id)
	if err != nil {
		return nil, err
	}
	return newQueryResponse(ins), nil
}

// UpdateStatus records a status change observed after the reveal was
// handed out, e.g. once it has been broadcast or confirmed.
func (s *Inscriber) UpdateStatus(id uint64, status string) (*QueryResponse, error) {
	ins, err := s.options.ledger.UpdateStatus(id, tables.Status(status))
	if err != nil {
		return nil, err
	}
	log.Ldgr.Infof("inscription %d: status %s", id, ins.Status)
	return newQueryResponse(ins), nil
}

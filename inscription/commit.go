package inscription

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcwallet/waddrmgr"
	"github.com/pkg/errors"
)

// unspendableInternalKey is the BIP341 NUMS point H. Nobody knows its
// discrete log, so commit outputs can only be spent through the leaf.
var unspendableInternalKey = mustParseXOnly("50929b74c1a04954b78b4b6035e97a5e078a5a0f28ec96d547bfee9ace803ac0")

func mustParseXOnly(s string) *btcec.PublicKey {
	raw, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	key, err := schnorr.ParsePubKey(raw)
	if err != nil {
		panic(err)
	}
	return key
}

// CommitOutput is the taproot output a user funds for one inscription.
type CommitOutput struct {
	InternalKey  *btcec.PublicKey
	Leaf         txscript.TapLeaf
	Address      *btcutil.AddressTaproot
	PkScript     []byte
	Script       []byte
	ControlBlock []byte
}

// DeriveCommit builds the commit output for pubKey and envelope on params.
// Equal inputs always give byte identical outputs.
func DeriveCommit(pubKey *btcec.PublicKey, envelope *Envelope, params *chaincfg.Params) (*CommitOutput, error) {
	script, err := envelope.Script(schnorr.SerializePubKey(pubKey))
	if err != nil {
		return nil, errors.Wrap(err, "build envelope script")
	}

	leaf := txscript.NewBaseTapLeaf(script)
	tapScript := &waddrmgr.Tapscript{
		Type:   waddrmgr.TapscriptTypeFullTree,
		Leaves: []txscript.TapLeaf{leaf},
		ControlBlock: &txscript.ControlBlock{
			InternalKey: unspendableInternalKey,
		},
	}
	outputKey, err := tapScript.TaprootKey()
	if err != nil {
		return nil, errors.Wrap(err, "taproot output key")
	}

	address, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), params)
	if err != nil {
		return nil, err
	}
	pkScript, err := txscript.PayToAddrScript(address)
	if err != nil {
		return nil, err
	}

	tree := txscript.AssembleTaprootScriptTree(leaf)
	controlBlock := tree.LeafMerkleProofs[0].ToControlBlock(unspendableInternalKey)
	controlBlockBytes, err := controlBlock.ToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "serialize control block")
	}

	return &CommitOutput{
		InternalKey:  unspendableInternalKey,
		Leaf:         leaf,
		Address:      address,
		PkScript:     pkScript,
		Script:       script,
		ControlBlock: controlBlockBytes,
	}, nil
}

package inscription

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// KeyPair is the ephemeral key that alone can spend one commit output.
type KeyPair struct {
	PrivateKey *btcec.PrivateKey
	PubKey     *btcec.PublicKey
}

// XOnlyPubKey returns the 32 byte BIP340 encoding of the public key.
func (k *KeyPair) XOnlyPubKey() []byte {
	return schnorr.SerializePubKey(k.PubKey)
}

// PrivateKeyHex returns the hex encoded 32 byte scalar. It is meant for the
// caller and the ledger only and must never be logged.
func (k *KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(k.PrivateKey.Serialize())
}

// PublicKeyHex returns the hex encoded x-only public key.
func (k *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(k.XOnlyPubKey())
}

// IssueKey restores the key encoded in existingKeyHex or, when it is empty,
// draws a fresh one.
func IssueKey(existingKeyHex string) (*KeyPair, error) {
	if existingKeyHex == "" {
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, errors.Wrap(err, "generate private key")
		}
		return &KeyPair{PrivateKey: priv, PubKey: priv.PubKey()}, nil
	}

	raw, err := hex.DecodeString(existingKeyHex)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeyEncoding, "malformed hex")
	}
	if len(raw) != btcec.PrivKeyBytesLen {
		return nil, errors.Wrapf(ErrInvalidKeyEncoding, "expected %d bytes, got %d", btcec.PrivKeyBytesLen, len(raw))
	}

	// PrivKeyFromBytes silently reduces mod N, reject out of range scalars
	// instead of signing with a different key.
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return nil, errors.Wrap(ErrInvalidKeyEncoding, "scalar out of range")
	}
	priv, pub := btcec.PrivKeyFromBytes(raw)
	return &KeyPair{PrivateKey: priv, PubKey: pub}, nil
}

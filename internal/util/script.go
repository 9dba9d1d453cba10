package util

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// DecodeAddress decodes address and makes sure it belongs to params. Segwit
// addresses of any registered network decode successfully, so the network
// has to be checked separately.
func DecodeAddress(address string, params *chaincfg.Params) (btcutil.Address, error) {
	decoded, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, err
	}
	if !decoded.IsForNet(params) {
		return nil, fmt.Errorf("address %s is not for %s", address, params.Name)
	}
	return decoded, nil
}

// AddressScript returns the output script paying to address on params.
func AddressScript(address string, params *chaincfg.Params) ([]byte, error) {
	decoded, err := DecodeAddress(address, params)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(decoded)
}

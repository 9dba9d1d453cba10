package util

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcwallet/netparams"
)

// ActiveNet returns the network selected by the testnet switch.
func ActiveNet(testnet bool) *netparams.Params {
	if testnet {
		return &netparams.TestNet3Params
	}
	return &netparams.MainNetParams
}

// ChainParams returns the chain parameters selected by the testnet switch.
func ChainParams(testnet bool) *chaincfg.Params {
	return ActiveNet(testnet).Params
}

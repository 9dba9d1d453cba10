package inscription

import (
	"math"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/inscription-c/ordinscribe/constants"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FeeQuote is what the reveal transaction reserves for fees.
type FeeQuote struct {
	RequiredAmount int64
}

// EstimateFee quotes ceil((contentLength + WitnessPad + TxPad) * feeRate / 4)
// sats. feeRate is in sats per vbyte and may be fractional. A quote above
// the total bitcoin supply is rejected as an invalid rate.
func EstimateFee(contentLength int, feeRate float64) (FeeQuote, error) {
	if math.IsNaN(feeRate) || math.IsInf(feeRate, 0) || feeRate <= 0 {
		return FeeQuote{}, errors.Wrapf(ErrInvalidFeeRate, "%v", feeRate)
	}
	if contentLength < 0 {
		contentLength = 0
	}

	size := decimal.NewFromInt(int64(contentLength + constants.WitnessPad + constants.TxPad))
	fee := size.Mul(decimal.NewFromFloat(feeRate)).
		Div(decimal.NewFromInt(constants.WitnessScaleFactor)).
		Ceil()
	if fee.GreaterThan(decimal.NewFromInt(btcutil.MaxSatoshi)) {
		return FeeQuote{}, errors.Wrapf(ErrInvalidFeeRate, "%v quotes %s sats", feeRate, fee)
	}
	return FeeQuote{RequiredAmount: fee.IntPart()}, nil
}

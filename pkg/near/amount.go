package near

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// NominationExp is the number of decimals of the native currency, ie.
// 1 NEAR = 10^24 yocto.
const NominationExp = 24

// ParseNearAmount converts a human readable amount like "0.1" into yocto.
func ParseNearAmount(amount string) (*big.Int, error) {
	return ParseTokenAmount(amount, NominationExp)
}

// FormatNearAmount is the inverse of ParseNearAmount.
func FormatNearAmount(yocto *big.Int) string {
	return FormatTokenAmount(yocto, NominationExp)
}

// MustParseNearAmount panics on invalid input, use for constants only.
func MustParseNearAmount(amount string) *big.Int {
	v, err := ParseNearAmount(amount)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseTokenAmount converts amount into minor units given the number of
// decimals. Commas are stripped, negative values and values with more
// decimals than allowed are rejected.
func ParseTokenAmount(amount string, decimals int32) (*big.Int, error) {
	str := strings.ReplaceAll(strings.TrimSpace(amount), ",", "")
	if len(str) <= 0 {
		return nil, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	if d.IsNegative() {
		return nil, ErrInvalidAmount
	}
	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, ErrAmountTooPrecise
	}
	return shifted.BigInt(), nil
}

// FormatTokenAmount renders minor units as a decimal string.
func FormatTokenAmount(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}

// ParseU128 parses the decimal string form used by contracts for u128
// values (U128 in JSON is always a string).
func ParseU128(str string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(str), 10)
	if !ok || v.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if v.BitLen() > 128 {
		return nil, ErrU128Overflow
	}
	return v, nil
}

package money

import "github.com/shopspring/decimal"

// BpsBase is 100% expressed in basis points.
const BpsBase = 10000

// TaxSplit is a tax-inclusive amount divided into its pre-tax base and the
// tax portion. BaseAmount plus TaxAmount always equals the input amount.
type TaxSplit struct {
	BaseAmount int64
	TaxAmount  NullAmount
}

// SplitTaxInclusiveAmount extracts the pre-tax base from a tax-inclusive
// amount. A nil rate means no tax applies. The base is rounded down.
func SplitTaxInclusiveAmount(amount int64, rateInBps *int) TaxSplit {
	if rateInBps == nil {
		return TaxSplit{BaseAmount: amount}
	}

	base := floorDiv(
		decimal.NewFromInt(amount).Mul(decimal.NewFromInt(BpsBase)),
		decimal.NewFromInt(BpsBase).Add(decimal.NewFromInt(int64(*rateInBps))),
	)
	return TaxSplit{
		BaseAmount: base,
		TaxAmount:  Amount(amount - base),
	}
}

// BpsBasePart is the base part of amount for the given rate.
func BpsBasePart(amount int64, rateInBps int) int64 {
	return SplitTaxInclusiveAmount(amount, &rateInBps).BaseAmount
}

// floorDiv divides exactly, so amount*BpsBase never wraps around int64.
func floorDiv(a, b decimal.Decimal) int64 {
	q, r := a.QuoRem(b, 0)
	if !r.IsZero() && r.IsNegative() != b.IsNegative() {
		q = q.Sub(decimal.NewFromInt(1))
	}
	return q.IntPart()
}

// Package money holds the integer amount types and the tax math shared by
// incomes and expenses. Amounts are always in minor currency units.
package money

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"strconv"
)

// NullAmount is an amount in minor units that may not be known yet.
type NullAmount struct {
	sql.NullInt64
}

// Amount returns a known amount.
func Amount(v int64) NullAmount {
	return NullAmount{sql.NullInt64{Int64: v, Valid: true}}
}

// AmountFromPtr converts an optional DTO value.
func AmountFromPtr(v *int64) NullAmount {
	if v == nil {
		return NullAmount{}
	}
	return Amount(*v)
}

// Ptr returns nil for an unknown amount.
func (a NullAmount) Ptr() *int64 {
	if !a.Valid {
		return nil
	}
	v := a.Int64
	return &v
}

func (a NullAmount) String() string {
	if !a.Valid {
		return "null"
	}
	return strconv.FormatInt(a.Int64, 10)
}

// MarshalJSON implements json.Marshaler
func (a NullAmount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(a.Int64, 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (a *NullAmount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = NullAmount{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

// AmountPair is one currency-conversion stage of a financial record: the
// amount converted into the workspace default currency, and that amount with
// the tax portion removed.
type AmountPair struct {
	OriginalAmountInDefaultCurrency NullAmount `json:"originalAmountInDefaultCurrency"`
	AdjustedAmountInDefaultCurrency NullAmount `json:"adjustedAmountInDefaultCurrency"`
}

// Unadjusted returns a pair whose adjusted amount is still to be computed.
func Unadjusted(original NullAmount) AmountPair {
	return AmountPair{OriginalAmountInDefaultCurrency: original}
}

// NewAmountPair builds a pair from the converted amount and applies the tax
// split when the converted amount is known.
func NewAmountPair(original NullAmount, rateInBps *int) AmountPair {
	pair, _ := Unadjusted(original).Adjust(rateInBps)
	return pair
}

// Adjust computes the adjusted amount from the original one. The returned tax
// amount is unknown when the original amount is unknown or no tax applies.
func (p AmountPair) Adjust(rateInBps *int) (AmountPair, NullAmount) {
	if !p.OriginalAmountInDefaultCurrency.Valid {
		return AmountPair{}, NullAmount{}
	}

	split := SplitTaxInclusiveAmount(p.OriginalAmountInDefaultCurrency.Int64, rateInBps)
	return AmountPair{
		OriginalAmountInDefaultCurrency: p.OriginalAmountInDefaultCurrency,
		AdjustedAmountInDefaultCurrency: Amount(split.BaseAmount),
	}, split.TaxAmount
}

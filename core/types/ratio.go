// Package types - Derived ratio values
package types

import (
	"bytes"
	"math"

	"github.com/shopspring/decimal"
)

// Ratio is a derived metric whose denominator may be zero.
// The zero value is undefined.
type Ratio struct {
	// Value holds the rounded ratio; meaningless when Defined is false
	Value decimal.Decimal

	// Defined is false when the denominator was zero
	Defined bool
}

// Undefined is the ratio produced by a zero denominator
var Undefined = Ratio{}

// NewRatio returns a defined ratio
func NewRatio(v decimal.Decimal) Ratio {
	return Ratio{Value: v, Defined: true}
}

// Divide computes num/den*scale rounded half to even at places, or Undefined
// when den is zero
func Divide(num, den, scale decimal.Decimal, places int32) Ratio {
	if den.IsZero() {
		return Undefined
	}
	return NewRatio(num.Mul(scale).Div(den).RoundBank(places))
}

// Float64 returns the value, or NaN when undefined
func (r Ratio) Float64() float64 {
	if !r.Defined {
		return math.NaN()
	}
	return r.Value.InexactFloat64()
}

// StringFixed formats the value with a fixed number of places, or "n/a"
func (r Ratio) StringFixed(places int32) string {
	if !r.Defined {
		return "n/a"
	}
	return r.Value.StringFixed(places)
}

// String implements Stringer
func (r Ratio) String() string {
	if !r.Defined {
		return "n/a"
	}
	return r.Value.String()
}

// Equal compares two ratios; undefined ratios are equal to each other
func (r Ratio) Equal(other Ratio) bool {
	if r.Defined != other.Defined {
		return false
	}
	return !r.Defined || r.Value.Equal(other.Value)
}

// MarshalJSON encodes an undefined ratio as null and a defined one as a bare number
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return []byte(r.Value.String()), nil
}

// UnmarshalJSON accepts null, a number or a quoted number
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = Undefined
		return nil
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = NewRatio(v)
	return nil
}

// Package moneydec provides a minimal fixed-point decimal type for
// financial values. float64 cannot represent values like 1234567.89 exactly,
// and no decimal library is available in the dependency set this module
// draws from, so this wraps big.Int with a fixed scale of 10 (matching the
// NUMERIC(28,10) column FinancialValue.value is stored in).
package moneydec

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// Scale is the number of digits kept after the decimal point.
const Scale = 10

var scaleFactor = new(big.Int).Exp(big.NewInt(10), big.NewInt(Scale), nil)

// Decimal is a fixed-point decimal value: unscaled * 10^-Scale.
type Decimal struct {
	unscaled *big.Int
}

// NewFromString parses a decimal literal such as "1234.5" or "-0.01".
func NewFromString(s string) (Decimal, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Decimal{}, fmt.Errorf("moneydec: invalid decimal literal %q", s)
	}
	return fromRat(r), nil
}

// NewFromInt builds a Decimal from a whole number of dollars (or base units).
func NewFromInt(i int64) Decimal {
	return Decimal{unscaled: new(big.Int).Mul(big.NewInt(i), scaleFactor)}
}

func fromRat(r *big.Rat) Decimal {
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(scaleFactor))
	// Round half away from zero.
	num := new(big.Int).Abs(scaled.Num())
	den := scaled.Denom()
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if new(big.Int).Mul(rem, big.NewInt(2)).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if scaled.Sign() < 0 {
		q.Neg(q)
	}
	return Decimal{unscaled: q}
}

// String renders the decimal in fixed-point notation.
func (d Decimal) String() string {
	if d.unscaled == nil {
		d.unscaled = big.NewInt(0)
	}
	neg := d.unscaled.Sign() < 0
	abs := new(big.Int).Abs(d.unscaled)
	s := abs.String()
	for len(s) <= Scale {
		s = "0" + s
	}
	intPart := s[:len(s)-Scale]
	fracPart := s[len(s)-Scale:]
	out := intPart + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// Value implements driver.Valuer for storage as Postgres NUMERIC.
func (d Decimal) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Decimal) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.unscaled = big.NewInt(0)
		return nil
	case string:
		parsed, err := NewFromString(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := NewFromString(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("moneydec: cannot scan %T into Decimal", src)
	}
}

// Equal reports whether two decimals represent the same value.
func (d Decimal) Equal(other Decimal) bool {
	a, b := d.unscaled, other.unscaled
	if a == nil {
		a = big.NewInt(0)
	}
	if b == nil {
		b = big.NewInt(0)
	}
	return a.Cmp(b) == 0
}

package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultScale is the number of fractional digits used for CNY-style books (fen).
const DefaultScale = 2

// maxScale bounds the scale so that 10^scale fits comfortably in int64.
const maxScale = 9

var (
	ErrPrecisionOverflow = errors.New("precision overflow")
	ErrInvalidAmount     = errors.New("invalid amount")
)

var pow10 = [...]int64{1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000}

// Money is an exact signed amount held as integer minor units at a fixed scale.
// The zero value is a valid zero amount.
type Money struct {
	units int64
	scale uint8
}

// New returns units minor units at the given scale.
func New(units int64, scale int) Money {
	if scale < 0 || scale > maxScale {
		panic(fmt.Sprintf("money: scale %d out of range", scale))
	}
	return Money{units: units, scale: uint8(scale)}
}

// Cents returns an amount in minor units at DefaultScale.
func Cents(units int64) Money {
	return Money{units: units, scale: DefaultScale}
}

// Zero returns a zero amount at DefaultScale.
func Zero() Money {
	return Money{scale: DefaultScale}
}

// Parse converts a decimal string such as "1500.00" or "-3.5" into Money at scale.
// Inputs with more significant fractional digits than scale are rejected, never rounded.
func Parse(s string, scale int) (Money, error) {
	if scale < 0 || scale > maxScale {
		return Money{}, fmt.Errorf("%w: scale %d out of range", ErrPrecisionOverflow, scale)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	shifted := d.Shift(int32(scale))
	if !shifted.Equal(shifted.Truncate(0)) {
		return Money{}, fmt.Errorf("%w: %q has more than %d fractional digits", ErrPrecisionOverflow, s, scale)
	}
	bi := shifted.BigInt()
	if !bi.IsInt64() {
		return Money{}, fmt.Errorf("%w: %q does not fit in minor units", ErrPrecisionOverflow, s)
	}
	return Money{units: bi.Int64(), scale: uint8(scale)}, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Money {
	m, err := Parse(s, DefaultScale)
	if err != nil {
		panic(err)
	}
	return m
}

// Units returns the amount in minor units at Scale().
func (m Money) Units() int64 { return m.units }

// Scale returns the number of fractional digits.
func (m Money) Scale() int { return int(m.scale) }

// align rescales both operands up to the larger scale. Rescaling up is exact.
func align(a, b Money) (Money, Money) {
	switch {
	case a.scale == b.scale:
		return a, b
	case a.scale < b.scale:
		return a.rescale(b.scale), b
	default:
		return a, b.rescale(a.scale)
	}
}

func (m Money) rescale(scale uint8) Money {
	return Money{units: m.units * pow10[scale-m.scale], scale: scale}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	a, b := align(m, o)
	return Money{units: a.units + b.units, scale: a.scale}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	a, b := align(m, o)
	return Money{units: a.units - b.units, scale: a.scale}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{units: -m.units, scale: m.scale}
}

// Abs returns |m|.
func (m Money) Abs() Money {
	if m.units < 0 {
		return m.Neg()
	}
	return m
}

// Cmp returns -1, 0 or +1 as m is less than, equal to, or greater than o.
func (m Money) Cmp(o Money) int {
	a, b := align(m, o)
	switch {
	case a.units < b.units:
		return -1
	case a.units > b.units:
		return 1
	default:
		return 0
	}
}

// Equal reports whether m and o are the same amount, regardless of scale.
func (m Money) Equal(o Money) bool { return m.Cmp(o) == 0 }

// IsZero reports whether m is zero.
func (m Money) IsZero() bool { return m.units == 0 }

// Sign returns -1, 0 or +1.
func (m Money) Sign() int {
	switch {
	case m.units < 0:
		return -1
	case m.units > 0:
		return 1
	default:
		return 0
	}
}

// Sum adds amounts in any order; the result does not depend on order.
func Sum(amounts ...Money) Money {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// String formats m with at least DefaultScale fractional digits, e.g. "1500.00".
func (m Money) String() string {
	scale := m.Scale()
	if scale < DefaultScale {
		scale = DefaultScale
	}
	s, _ := m.Format(scale)
	return s
}

// Format renders m with exactly scale fractional digits. Asking for fewer digits
// than m carries would drop precision and fails with ErrPrecisionOverflow.
func (m Money) Format(scale int) (string, error) {
	if scale < m.Scale() || scale > maxScale {
		return "", fmt.Errorf("%w: cannot format scale %d amount with %d digits", ErrPrecisionOverflow, m.scale, scale)
	}
	return decimal.New(m.units, -int32(m.scale)).StringFixed(int32(scale)), nil
}

// MarshalJSON encodes m as a decimal string so no consumer reads it as a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted or bare decimal at DefaultScale.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := Parse(s, DefaultScale)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Package money provides a fixed-point monetary amount with four fractional
// decimal digits. Decimal text is truncated, never rounded, on parse, and all
// arithmetic is exact integer arithmetic.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional decimal digits an Amount carries.
const Scale = 4

const unitsPerWhole = 10000

var (
	ErrMalformed  = errors.New("malformed amount")
	ErrNegative   = errors.New("negative amount")
	ErrOutOfRange = errors.New("amount out of range")
)

// maxMagnitude is the largest absolute value representable in int64 units.
var maxMagnitude = decimal.NewFromInt(math.MaxInt64).Shift(-Scale)

// Amount is stored as an integer count of 1/10000 units.
type Amount struct {
	units int64
}

var Zero = Amount{}

func FromUnits(units int64) Amount {
	return Amount{units: units}
}

// Parse accepts an optional sign, digits, and an optional fractional part.
// Fractional digits past the fourth are dropped.
func Parse(text string) (Amount, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, "eE") {
		return Zero, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	d = d.Truncate(Scale)
	if d.Abs().GreaterThan(maxMagnitude) {
		return Zero, fmt.Errorf("%w: %q", ErrOutOfRange, text)
	}

	return Amount{units: d.Shift(Scale).IntPart()}, nil
}

// ParseNonNegative is Parse for callers that require a value >= 0. A value
// that truncates to zero, such as "-0.00001", is accepted as zero.
func ParseNonNegative(text string) (Amount, error) {
	a, err := Parse(text)
	if err != nil {
		return Zero, err
	}
	if a.IsNegative() {
		return Zero, fmt.Errorf("%w: %q", ErrNegative, strings.TrimSpace(text))
	}
	return a, nil
}

func (a Amount) Units() int64 {
	return a.units
}

func (a Amount) Add(b Amount) Amount {
	return Amount{units: a.units + b.units}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{units: a.units - b.units}
}

// CheckedAdd reports false instead of wrapping when the sum leaves the int64 range.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	if (b.units > 0 && a.units > math.MaxInt64-b.units) ||
		(b.units < 0 && a.units < math.MinInt64-b.units) {
		return Zero, false
	}
	return Amount{units: a.units + b.units}, true
}

func (a Amount) Cmp(b Amount) int {
	switch {
	case a.units < b.units:
		return -1
	case a.units > b.units:
		return 1
	default:
		return 0
	}
}

func (a Amount) LessThan(b Amount) bool {
	return a.units < b.units
}

func (a Amount) IsNegative() bool {
	return a.units < 0
}

func (a Amount) IsZero() bool {
	return a.units == 0
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.units, -Scale)
}

// String renders the amount with exactly four fractional digits.
func (a Amount) String() string {
	sign := ""
	var magnitude uint64
	if a.units < 0 {
		sign = "-"
		magnitude = uint64(-(a.units + 1)) + 1
	} else {
		magnitude = uint64(a.units)
	}
	return fmt.Sprintf("%s%d.%04d", sign, magnitude/unitsPerWhole, magnitude%unitsPerWhole)
}

// Package pricing computes line and cart totals from loosely typed prices.
//
// Every price read goes through NumericCoerce. Totals accumulate in full
// float64 precision; Round and Format are applied only when a value leaves
// the module (display, snapshots, CLI output).
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NumericCoerce converts a loosely typed price to a float64.
//
// Finite numbers are used as-is. Strings have every character outside
// [0-9.-] stripped and are then parsed ("$1.50" reads as 1.5). Anything else,
// including parse failures and non-finite values, reads as 0.
func NumericCoerce(v any) float64 {
	switch val := v.(type) {
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case json.Number:
		return coerceString(string(val))
	case decimal.Decimal:
		return finite(val.InexactFloat64())
	case string:
		return coerceString(val)
	default:
		return 0
	}
}

// Storable returns a price that survives JSON encoding and reads the same
// through NumericCoerce: non-finite floats become 0 and json.Numbers are
// replaced by their coerced value. Other values are returned unchanged.
func Storable(v any) any {
	switch val := v.(type) {
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case json.Number:
		return NumericCoerce(val)
	}
	return v
}

func coerceString(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Line is anything that can be priced as one cart line.
type Line interface {
	PriceBase() any
	PriceDeltas() []any
	PriceQuantity() int
}

// UnitPrice is the base price plus every selected option's delta.
func UnitPrice(base any, deltas []any) float64 {
	total := NumericCoerce(base)
	for _, d := range deltas {
		total += NumericCoerce(d)
	}
	return total
}

// LineItemTotal is UnitPrice times quantity.
func LineItemTotal(l Line) float64 {
	return UnitPrice(l.PriceBase(), l.PriceDeltas()) * float64(l.PriceQuantity())
}

// Subtotal sums LineItemTotal over lines without intermediate rounding.
func Subtotal[L Line](lines []L) float64 {
	var total float64
	for _, l := range lines {
		total += LineItemTotal(l)
	}
	return total
}

// Round rounds v half away from zero to two decimals.
func Round(v float64) float64 {
	return toDecimal(v).Round(2).InexactFloat64()
}

// Format renders v with exactly two decimals, e.g. "23.00".
func Format(v float64) string {
	return toDecimal(v).StringFixed(2)
}

func toDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(finite(v))
}

package netperf

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind is the type a report cell was read as
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindInt
	KindFloat
)

// Value is one report cell. Numbers keep whether the log wrote them as
// integer or float literals so the CSV renders them the same way.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// Fixed cells for KPIs a test family does not measure
var (
	Zero      = StringValue("0")
	NotANum   = StringValue("NaN")
	EmptyCell = Value{}
)

// StringValue returns a text cell
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue returns an integer cell
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue returns a float cell
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// FromJSON converts a gjson result into a cell. Integer literals stay
// integers, every other number is a float.
func FromJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.String:
		return StringValue(r.Str)
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return IntValue(i)
			}
		}
		return FloatValue(r.Num)
	case gjson.True:
		return StringValue("True")
	case gjson.False:
		return StringValue("False")
	case gjson.Null:
		return EmptyCell
	default:
		return StringValue(r.Raw)
	}
}

// Kind reports how the cell was read
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the cell holds nothing
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Number returns the numeric value of the cell. Text cells holding a finite
// decimal number ("0", "1024") count as numeric, "NaN" does not.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Round rounds float cells to places decimals, other cells are returned as is
func (v Value) Round(places int) Value {
	if v.kind != KindFloat || math.IsNaN(v.f) || math.IsInf(v.f, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	r := math.Round(v.f*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return FloatValue(r)
}

// String renders the cell as it appears in the CSV
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	default:
		return ""
	}
}

// formatFloat renders the shortest representation that round-trips, with a
// ".0" suffix on integral values and exponent notation outside [1e-4, 1e16).
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// compareValues orders two cells: numerically when both are numeric, by
// text otherwise. Empty cells sort last.
func compareValues(a, b Value) int {
	switch {
	case a.IsEmpty() && b.IsEmpty():
		return 0
	case a.IsEmpty():
		return 1
	case b.IsEmpty():
		return -1
	}

	if x, ok := a.Number(); ok {
		if y, ok := b.Number(); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a.String(), b.String())
}

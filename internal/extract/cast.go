package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fallback is the value every failed numeric cast yields. The zero value is
// "none": failed casts leave the field absent.
type Fallback struct {
	value float64
	set   bool
}

// None returns the fallback that leaves failed fields absent.
func None() Fallback { return Fallback{} }

// Value returns a fallback substituting v for failed casts. Integer fields
// receive v truncated toward zero; ParseFallback only accepts whole numbers.
func Value(v float64) Fallback { return Fallback{value: v, set: true} }

// ParseFallback reads "none" (or an empty string) or a whole number. The
// same value fills both integer and percentage fields, so fractions are
// rejected.
func ParseFallback(s string) (Fallback, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return None(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Fallback{}, fmt.Errorf("fallback %q: want \"none\" or a number", s)
	}
	if math.IsInf(v, 0) || math.Trunc(v) != v {
		return Fallback{}, fmt.Errorf("fallback %q: want a whole number", s)
	}
	return Value(v), nil
}

// IsNone reports whether failed casts leave the field absent.
func (f Fallback) IsNone() bool { return !f.set }

func (f Fallback) String() string {
	if !f.set {
		return "none"
	}
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

// Number is the set of types Cast produces.
type Number interface {
	~int | ~int64 | ~float64
}

// Cast parses raw when ok is set. When raw is missing or parse fails it
// returns the fallback converted to T, or nil for the none fallback.
func Cast[T Number](fb Fallback, parse func(string) (T, error), raw string, ok bool) *T {
	if ok {
		if v, err := parse(raw); err == nil {
			return &v
		}
	}
	if !fb.set {
		return nil
	}
	v := T(fb.value)
	return &v
}

// Int and Float are the parsers used for counts and percentages.
func Int(s string) (int, error) { return strconv.Atoi(s) }

func Float(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

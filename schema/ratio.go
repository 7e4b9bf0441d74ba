package schema

import (
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a derived metric that may be undefined (NaN), for example a rate
// whose denominator is zero. Undefined values encode as null in JSON and YAML.
type Ratio float64

// Undefined returns the undefined Ratio.
func Undefined() Ratio {
	return Ratio(math.NaN())
}

// RatioOf divides num by den. A zero denominator yields Undefined.
func RatioOf(num, den float64) Ratio {
	if den == 0 {
		return Undefined()
	}
	return Ratio(num / den)
}

// IsUndefined reports whether r carries no value.
func (r Ratio) IsUndefined() bool {
	return math.IsNaN(float64(r))
}

// Float returns r as a float64 (NaN when undefined).
func (r Ratio) Float() float64 {
	return float64(r)
}

// Ptr returns nil when r is undefined, otherwise a pointer to its value.
func (r Ratio) Ptr() *float64 {
	if r.IsUndefined() {
		return nil
	}
	v := float64(r)
	return &v
}

// Format renders r with the given precision, or an empty string when undefined.
func (r Ratio) Format(precision int) string {
	if r.IsUndefined() {
		return ""
	}
	return strconv.FormatFloat(float64(r), 'f', precision, 64)
}

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.IsUndefined() || math.IsInf(float64(r), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ratio) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Undefined()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r Ratio) MarshalYAML() (any, error) {
	if r.IsUndefined() {
		return nil, nil
	}
	return float64(r), nil
}

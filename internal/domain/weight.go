package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// WeightValue is a logged weight exactly as the user entered it: either a JSON
// string ("60", "62,5", "BW"), a JSON number, or null. The original form is
// preserved so records round-trip byte for byte.
type WeightValue struct {
	raw    string // text, or the JSON number literal when number is true
	number bool
	null   bool
}

// TextWeight wraps a free-form weight string.
func TextWeight(s string) WeightValue {
	return WeightValue{raw: s}
}

// NumberWeight wraps a numeric weight.
func NumberWeight(f float64) WeightValue {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return WeightValue{}
	}
	return WeightValue{raw: strconv.FormatFloat(f, 'f', -1, 64), number: true}
}

func (w WeightValue) String() string { return w.raw }

// IsNumber reports whether the value was stored as a JSON number.
func (w WeightValue) IsNumber() bool { return w.number }

// IsNull reports whether the value was stored as JSON null.
func (w WeightValue) IsNull() bool { return w.null }

// Float interprets the value as a number. Comma decimals ("62,5") are accepted.
func (w WeightValue) Float() (float64, bool) {
	s := strings.TrimSpace(strings.Replace(w.raw, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (w WeightValue) MarshalJSON() ([]byte, error) {
	if w.null {
		return []byte("null"), nil
	}
	if w.number {
		return []byte(w.raw), nil
	}
	return json.Marshal(w.raw)
}

func (w *WeightValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return errors.New("weight: empty value")
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = WeightValue{raw: s}
	case bytes.Equal(data, []byte("null")):
		*w = WeightValue{null: true}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.New("weight: expected string or number")
		}
		*w = WeightValue{raw: n.String(), number: true}
	}
	return nil
}

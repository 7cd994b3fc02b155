package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Imported layouts are hand-edited and come from older clients, so the
// readers below coerce whatever JSON value arrives instead of rejecting it.
// The raw text has already been validated by the enclosing decoder.

// LooseNumber reads a JSON number or a numeric string.  Anything else,
// including non-finite results, reports false.
func LooseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	var v float64
	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if json.Unmarshal(raw, &v) != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// LooseInt truncates a loose number toward zero, saturating at the int32
// range so oversized input cannot wrap.
func LooseInt(raw json.RawMessage) (int, bool) {
	v, ok := LooseNumber(raw)
	if !ok {
		return 0, false
	}
	return TruncInt(v), true
}

// TruncInt truncates v toward zero and saturates it at the int32 range.
func TruncInt(v float64) int {
	v = math.Trunc(v)
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}

// LooseString returns raw when it is a JSON string and "" otherwise.
func LooseString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// LooseText renders strings, numbers and booleans as text.  Null, arrays
// and objects become "".
func LooseText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		return LooseString(raw)
	case '{', '[', 'n':
		return ""
	}
	return string(raw)
}

// Truthy reports whether raw holds a truthy JSON value: anything except a
// missing value, null, false, zero or the empty string.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		return LooseString(raw) != ""
	}
	var v float64
	if json.Unmarshal(raw, &v) != nil {
		// out of float64 range, so certainly not zero
		return true
	}
	return v != 0
}

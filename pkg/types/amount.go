package types

import (
	"bytes"
	"encoding/json"
	"math"
)

// AmountValue returns the numeric value of a stored amount. Only JSON numbers
// count; strings, booleans, objects, arrays, null and a missing amount are 0.
func AmountValue(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	switch raw[0] {
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	default:
		return 0
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}

	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}

	return f
}

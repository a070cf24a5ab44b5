package eda

import (
	"encoding/json"
	"math"
)

// Float is a float64 that encodes non-finite values as JSON null.
// encoding/json rejects NaN and infinities outright, and several statistics
// are legitimately NaN (correlation against a constant column, sample
// variance of a single value), so every float that reaches a response body
// goes through this type.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f Float) IsNaN() bool {
	return math.IsNaN(float64(f))
}

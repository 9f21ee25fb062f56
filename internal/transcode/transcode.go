// Package transcode converts ledger-native values into simulation space.
// Every function here is pure: no state, no side effects, same output for
// the same input.
package transcode

import (
	"math/big"

	"chain-racer/server/internal/ledger"
)

// fixedOne is 2^64, the scale of the ledger's 64.64 fixed-point encoding.
var fixedOne = new(big.Float).SetMantExp(big.NewFloat(1), 64)

// FixedToFloat decodes a 64.64 fixed-point field value to a float64:
// the integer interpretation divided by 2^64.
func FixedToFloat(f ledger.FieldValue) float64 {
	quo := new(big.Float).SetInt(f.Int())
	quo.Quo(quo, fixedOne)
	out, _ := quo.Float64()
	return out
}

// Transform maps ledger coordinates into simulation coordinates. X gets a
// scale and an origin offset; Y is scale-only.
type Transform struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
}

// Apply converts one ledger-space point to simulation space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.ScaleX + t.OffsetX, y * t.ScaleY
}

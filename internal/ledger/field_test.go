package ledger

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortStringEncodesASCII(t *testing.T) {
	f, err := ShortString("racer")
	require.NoError(t, err)
	// Big-endian ASCII bytes of "racer".
	assert.Equal(t, "0x7261636572", f.String())
}

func TestShortStringRejectsOversized(t *testing.T) {
	_, err := ShortString("this string is far too long to fit into one field element!")
	assert.Error(t, err)
}

func TestShortStringRejectsNonASCII(t *testing.T) {
	_, err := ShortString("héllo")
	assert.Error(t, err)
}

func TestParseFieldHexAndDecimal(t *testing.T) {
	hex, err := ParseField("0xff")
	require.NoError(t, err)
	dec, err := ParseField("255")
	require.NoError(t, err)
	assert.True(t, hex.Equal(dec))
}

func TestParseFieldRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "0x", "nope", "-12"} {
		_, err := ParseField(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestZeroIsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.False(t, FieldFromUint64(1).IsZero())
}

func TestFieldJSONRoundTrip(t *testing.T) {
	original := FieldFromUint64(12345)
	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"0x3039"`, string(data))

	var decoded FieldValue
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))
}

func TestRandFixedSeedRange(t *testing.T) {
	mask := new(big.Int).SetUint64(^uint64(0))
	for i := 0; i < 100; i++ {
		n := RandFixedSeed().Int()
		// Integer part below 200, fractional bits all zero.
		frac := new(big.Int).And(n, mask)
		assert.Zero(t, frac.Sign())
		whole := n.Rsh(n, 64)
		assert.Less(t, whole.Uint64(), uint64(200))
	}
}

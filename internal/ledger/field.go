package ledger

import (
	"encoding/json"
	"fmt"
	"math/big"
	"math/rand/v2"
	"strings"
)

// FieldValue is a ledger field element: a non-negative integer that fits the
// ledger's native word. Values travel on the wire as 0x-prefixed hex strings.
// The zero value is the canonical zero element.
type FieldValue struct {
	n big.Int
}

// Zero is the canonical zero field element, used as the entity partition key
// for component queries.
var Zero = FieldValue{}

// maxShortString is the longest ASCII string that fits a single field element.
const maxShortString = 31

// FieldFromUint64 builds a field value from a native integer.
func FieldFromUint64(v uint64) FieldValue {
	var f FieldValue
	f.n.SetUint64(v)
	return f
}

// ParseField decodes a 0x-prefixed hex string or a plain decimal string.
func ParseField(s string) (FieldValue, error) {
	var f FieldValue
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return f, fmt.Errorf("parse field: empty string")
	}
	base := 10
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		trimmed = trimmed[2:]
		base = 16
	}
	if _, ok := f.n.SetString(trimmed, base); !ok {
		return f, fmt.Errorf("parse field: invalid value %q", s)
	}
	if f.n.Sign() < 0 {
		return f, fmt.Errorf("parse field: negative value %q", s)
	}
	return f, nil
}

// ShortString encodes an ASCII string of at most 31 characters as a field
// value, big-endian byte order. This mirrors the ledger's short-string
// convention for model and system names.
func ShortString(s string) (FieldValue, error) {
	if len(s) > maxShortString {
		return FieldValue{}, fmt.Errorf("short string %q exceeds %d bytes", s, maxShortString)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return FieldValue{}, fmt.Errorf("short string %q contains non-ASCII byte at %d", s, i)
		}
	}
	var f FieldValue
	f.n.SetBytes([]byte(s))
	return f, nil
}

// RandFixedSeed returns a randomized 64.64 fixed-point value in [0, 200),
// i.e. (rand % 200) << 64. Used as the spawn seed argument.
func RandFixedSeed() FieldValue {
	var f FieldValue
	f.n.SetUint64(rand.Uint64() % 200)
	f.n.Lsh(&f.n, 64)
	return f
}

// IsZero reports whether the value is the zero element.
func (f FieldValue) IsZero() bool {
	return f.n.Sign() == 0
}

// Int returns a copy of the underlying integer.
func (f FieldValue) Int() *big.Int {
	return new(big.Int).Set(&f.n)
}

// Equal reports whether two field values are the same element.
func (f FieldValue) Equal(other FieldValue) bool {
	return f.n.Cmp(&other.n) == 0
}

// String renders the value as 0x-prefixed hex.
func (f FieldValue) String() string {
	return "0x" + f.n.Text(16)
}

// MarshalJSON encodes the value as a hex string.
func (f FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts hex or decimal strings.
func (f *FieldValue) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("field value: %w", err)
	}
	parsed, err := ParseField(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Record is the raw field sequence returned by a component query. It is
// transient: carried in events to consumers, never stored by the sync layer.
type Record []FieldValue

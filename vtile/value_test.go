package vtile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceValueNarrowsIntegersToSint64(t *testing.T) {
	assert.Equal(t, Sint64Value(5), CoerceValue(5))
	assert.Equal(t, Sint64Value(5), CoerceValue(int8(5)))
	assert.Equal(t, Sint64Value(5), CoerceValue(uint32(5)))
	assert.Equal(t, Sint64Value(-3), CoerceValue(int64(-3)))
}

func TestCoerceValuePassesTypedValueThrough(t *testing.T) {
	v := Uint64Value(9)
	assert.Equal(t, v, CoerceValue(v))
}

func TestCoerceValueStringifiesUnknownTypes(t *testing.T) {
	type custom struct{ A int }
	got := CoerceValue(custom{A: 1})
	assert.Equal(t, KindString, got.Kind)
	assert.NotEmpty(t, got.Str)
}

func TestTypedValueEqualityConsidersKind(t *testing.T) {
	assert.NotEqual(t, Sint64Value(1), BoolValue(true))
	assert.Equal(t, Sint64Value(1), Sint64Value(1))
}

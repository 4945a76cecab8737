package vtpbf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringFieldRoundTrip(t *testing.T) {
	w := NewWriter()
	w.StringField(1, "hello")

	r := NewReader(w.Bytes())
	field, wireType, err := r.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, 1, field)
	assert.Equal(t, WireBytes, wireType)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.True(t, r.Done())
}

func TestPackedVarintsRoundTrip(t *testing.T) {
	w := NewWriter()
	vals := []int32{9, 0, 0, 18, 320, 320, 0, 319}
	w.PackedVarintsField(4, vals)

	r := NewReader(w.Bytes())
	_, _, err := r.ReadTag()
	require.NoError(t, err)
	got, err := r.ReadPackedVarints()
	require.NoError(t, err)
	assert.Equal(t, vals, got)
}

func TestSint64ZigZagRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 40, -(1 << 40)} {
		w := NewWriter()
		w.Sint64Field(6, v)
		r := NewReader(w.Bytes())
		_, _, err := r.ReadTag()
		require.NoError(t, err)
		got, err := r.ReadSint64()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestFixed32AndFixed64RoundTrip(t *testing.T) {
	w := NewWriter()
	w.Fixed32Field(2, 0xdeadbeef)
	w.Fixed64Field(3, 0x1122334455667788)

	r := NewReader(w.Bytes())
	_, _, _ = r.ReadTag()
	v32, err := r.ReadFixed32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v32)

	_, _, _ = r.ReadTag()
	v64, err := r.ReadFixed64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), v64)
}

func TestSkipUnknownField(t *testing.T) {
	w := NewWriter()
	w.StringField(9, "ignored")
	w.Uint64Field(1, 42)

	r := NewReader(w.Bytes())
	field, wireType, err := r.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, 9, field)
	require.NoError(t, r.Skip(wireType))

	field, _, err = r.ReadTag()
	require.NoError(t, err)
	assert.Equal(t, 1, field)
	v, err := r.ReadVarint()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestReadTruncatedBufferErrors(t *testing.T) {
	r := NewReader([]byte{0x08})
	_, err := r.ReadBytes()
	assert.Error(t, err)
}

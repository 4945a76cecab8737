package vtile

import "fmt"

// ValueKind discriminates the wire representation a TypedValue carries. It
// participates in TypedValue equality so that, e.g., the integer 1 and the
// boolean true never collide as attribute values.
type ValueKind uint8

const (
	KindString ValueKind = iota
	KindFloat32
	KindFloat64
	KindInt64
	KindUint64
	KindSint64
	KindBool
)

// TypedValue is a tagged union over the MVT attribute value types. All
// fields are comparable so TypedValue itself can be used as a map key (the
// Layer value dictionary relies on this); only the field selected by Kind is
// meaningful.
type TypedValue struct {
	Kind ValueKind
	Str  string
	F32  float32
	F64  float64
	Int  int64
	Uint uint64
	Bool bool
}

func StringValue(s string) TypedValue  { return TypedValue{Kind: KindString, Str: s} }
func Float32Value(f float32) TypedValue { return TypedValue{Kind: KindFloat32, F32: f} }
func Float64Value(f float64) TypedValue { return TypedValue{Kind: KindFloat64, F64: f} }
func Int64Value(i int64) TypedValue    { return TypedValue{Kind: KindInt64, Int: i} }
func Uint64Value(u uint64) TypedValue  { return TypedValue{Kind: KindUint64, Uint: u} }
func Sint64Value(i int64) TypedValue   { return TypedValue{Kind: KindSint64, Int: i} }
func BoolValue(b bool) TypedValue      { return TypedValue{Kind: KindBool, Bool: b} }

// CoerceValue implements Rule E1's encode-side input domain: it narrows a
// loose Go value into the TypedValue the attribute dictionary and tile
// builder operate on. Any integer width becomes a Sint64 (the builder always
// writes loose integers as the wire's sint_value, zigzag-encoded); a value
// outside the accepted set is stringified. The Int64/Uint64 kinds are never
// produced here — they only appear on values recovered by ParseTile from a
// tile that used the wire's plain int_value/uint_value fields.
func CoerceValue(v interface{}) TypedValue {
	switch n := v.(type) {
	case TypedValue:
		return n
	case string:
		return StringValue(n)
	case bool:
		return BoolValue(n)
	case float32:
		return Float32Value(n)
	case float64:
		return Float64Value(n)
	case int:
		return Sint64Value(int64(n))
	case int8:
		return Sint64Value(int64(n))
	case int16:
		return Sint64Value(int64(n))
	case int32:
		return Sint64Value(int64(n))
	case int64:
		return Sint64Value(n)
	case uint:
		return Sint64Value(int64(n))
	case uint8:
		return Sint64Value(int64(n))
	case uint16:
		return Sint64Value(int64(n))
	case uint32:
		return Sint64Value(int64(n))
	case uint64:
		return Sint64Value(int64(n))
	default:
		return StringValue(fmt.Sprintf("%v", v))
	}
}

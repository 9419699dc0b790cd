package number

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Codec is an interface for encoding and decoding scalars with a fixed width.
type Codec[T Scalar] interface {
	Encoder[T]
	Decoder[T]
	fmt.Stringer

	// NumBytes returns the number of bytes of every encoded value.
	NumBytes() int
	// AsFloat64 widens the value to a float64.
	AsFloat64(v T) float64
}

// Encoder is an interface for encoding values.
type Encoder[T Scalar] interface {
	Encode(v T) []byte
	Append(dst []byte, v T) []byte
}

// Decoder is an interface for decoding values.
type Decoder[T Scalar] interface {
	Decode(bz []byte) (T, error)
}

// CodecFor returns the codec for the given type.
func CodecFor[T Scalar]() Codec[T] {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8Codec).(Codec[T])
	case int16:
		return any(int16Codec).(Codec[T])
	case int32:
		return any(int32Codec).(Codec[T])
	case int64:
		return any(int64Codec).(Codec[T])
	case uint8:
		return any(uint8Codec).(Codec[T])
	case uint16:
		return any(uint16Codec).(Codec[T])
	case uint32:
		return any(uint32Codec).(Codec[T])
	case uint64:
		return any(uint64Codec).(Codec[T])
	case float32:
		return any(float32Codec).(Codec[T])
	case float64:
		return any(float64Codec).(Codec[T])
	case bool:
		return any(BoolCodec{}).(Codec[T])
	}
	// Unreachable, Scalar is a closed type set.
	panic("number: no codec for type")
}

var (
	int8Codec = FixedCodec[int8]{
		name: "int8", width: 1,
		put: func(b []byte, v int8) []byte { return append(b, byte(v)) },
		get: func(b []byte) int8 { return int8(b[0]) },
	}
	int16Codec = FixedCodec[int16]{
		name: "int16", width: 2,
		put: func(b []byte, v int16) []byte { return binary.BigEndian.AppendUint16(b, uint16(v)) },
		get: func(b []byte) int16 { return int16(binary.BigEndian.Uint16(b)) },
	}
	int32Codec = FixedCodec[int32]{
		name: "int32", width: 4,
		put: func(b []byte, v int32) []byte { return binary.BigEndian.AppendUint32(b, uint32(v)) },
		get: func(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) },
	}
	int64Codec = FixedCodec[int64]{
		name: "int64", width: 8,
		put: func(b []byte, v int64) []byte { return binary.BigEndian.AppendUint64(b, uint64(v)) },
		get: func(b []byte) int64 { return int64(binary.BigEndian.Uint64(b)) },
	}
	uint8Codec = FixedCodec[uint8]{
		name: "uint8", width: 1,
		put: func(b []byte, v uint8) []byte { return append(b, v) },
		get: func(b []byte) uint8 { return b[0] },
	}
	uint16Codec = FixedCodec[uint16]{
		name: "uint16", width: 2,
		put: binary.BigEndian.AppendUint16,
		get: binary.BigEndian.Uint16,
	}
	uint32Codec = FixedCodec[uint32]{
		name: "uint32", width: 4,
		put: binary.BigEndian.AppendUint32,
		get: binary.BigEndian.Uint32,
	}
	uint64Codec = FixedCodec[uint64]{
		name: "uint64", width: 8,
		put: binary.BigEndian.AppendUint64,
		get: binary.BigEndian.Uint64,
	}
	float32Codec = FixedCodec[float32]{
		name: "float32", width: 4,
		put: func(b []byte, v float32) []byte { return binary.BigEndian.AppendUint32(b, math.Float32bits(v)) },
		get: func(b []byte) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b)) },
	}
	float64Codec = FixedCodec[float64]{
		name: "float64", width: 8,
		put: func(b []byte, v float64) []byte { return binary.BigEndian.AppendUint64(b, math.Float64bits(v)) },
		get: func(b []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b)) },
	}
)

// FixedCodec is a big-endian codec for a primitive numeric type.
// Float values are encoded by their IEEE 754 bits so NaN payloads and signed
// zeros survive a round trip.
type FixedCodec[T Number] struct {
	name  string
	width int
	put   func([]byte, T) []byte
	get   func([]byte) T
}

// NumBytes implements the Codec interface.
func (c FixedCodec[T]) NumBytes() int {
	return c.width
}

// Encode implements the Codec interface.
func (c FixedCodec[T]) Encode(v T) []byte {
	return c.put(make([]byte, 0, c.width), v)
}

// Append implements the Codec interface.
func (c FixedCodec[T]) Append(dst []byte, v T) []byte {
	return c.put(dst, v)
}

// Decode decodes the first NumBytes bytes of bz.
func (c FixedCodec[T]) Decode(bz []byte) (T, error) {
	if len(bz) < c.width {
		return 0, &DecodeError{Type: c.name, Width: c.width, Bytes: bytes.Clone(bz), Err: ErrMalformedInput}
	}
	return c.get(bz), nil
}

// AsFloat64 implements the Codec interface.
func (c FixedCodec[T]) AsFloat64(v T) float64 {
	return float64(v)
}

// String returns the name of the encoded type.
func (c FixedCodec[T]) String() string {
	return c.name
}

// BoolCodec encodes false as 0x00 and true as 0x01.
type BoolCodec struct{}

// NumBytes implements the Codec interface.
func (BoolCodec) NumBytes() int {
	return 1
}

// Encode implements the Codec interface.
func (c BoolCodec) Encode(v bool) []byte {
	return c.Append(make([]byte, 0, 1), v)
}

// Append implements the Codec interface.
func (BoolCodec) Append(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// Decode decodes the first byte of bz. Any byte other than 0 or 1 is an invalid encoding.
func (BoolCodec) Decode(bz []byte) (bool, error) {
	if len(bz) < 1 {
		return false, &DecodeError{Type: "bool", Width: 1, Bytes: bytes.Clone(bz), Err: ErrMalformedInput}
	}

	switch bz[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &DecodeError{Type: "bool", Width: 1, Bytes: bytes.Clone(bz[:1]), Err: ErrInvalidEncoding}
	}
}

// AsFloat64 returns 1 for true and 0 for false.
func (BoolCodec) AsFloat64(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// String returns the name of the encoded type.
func (BoolCodec) String() string {
	return "bool"
}

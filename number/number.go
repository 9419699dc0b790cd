// Package number provides fixed-width, big-endian persistence and float
// conversion for the primitive numeric types and bool.
//
// The byte width of every type is known from the type alone, so a storage
// layer can compute sizes and offsets of encoded arrays without looking at
// the values.
package number

// NumBytes returns the encoded width of T in bytes.
func NumBytes[T Scalar]() int {
	return CodecFor[T]().NumBytes()
}

// ToBytes returns the big-endian encoding of v, exactly NumBytes[T]() long.
func ToBytes[T Scalar](v T) []byte {
	return CodecFor[T]().Encode(v)
}

// AppendBytes appends the encoding of v to dst.
func AppendBytes[T Scalar](dst []byte, v T) []byte {
	return CodecFor[T]().Append(dst, v)
}

// FromBytes decodes the first NumBytes[T]() bytes of bz.
// It is the inverse of ToBytes.
func FromBytes[T Scalar](bz []byte) (T, error) {
	return CodecFor[T]().Decode(bz)
}

// MustFromBytes is like FromBytes but panics if an error occurs.
func MustFromBytes[T Scalar](bz []byte) T {
	v, err := FromBytes[T](bz)
	if err != nil {
		panic(err)
	}
	return v
}

// AsFloat64 converts v to a float64. Booleans map to 0 and 1.
func AsFloat64[T Scalar](v T) float64 {
	return CodecFor[T]().AsFloat64(v)
}

// AsBool converts v to a primitive bool.
func AsBool[T Boolean](v T) bool {
	return bool(v)
}

// TypeName returns the stable name of T used in persisted headers.
func TypeName[T Scalar]() string {
	return CodecFor[T]().String()
}

// Sum returns the sum of vs.
func Sum[T Number](vs ...T) T {
	var s T
	for _, v := range vs {
		s += v
	}
	return s
}

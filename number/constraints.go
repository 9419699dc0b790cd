package number

// Number is a primitive numeric type with a fixed-width big-endian encoding.
//
// Every member supports the usual arithmetic and ordering operators, formats
// with the fmt verbs and is safe to copy and share between goroutines.
type Number interface {
	int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// Boolean is a value convertible to a primitive bool.
type Boolean interface {
	~bool
}

// Scalar is any value the codecs of this package can persist.
type Scalar interface {
	Number | bool
}

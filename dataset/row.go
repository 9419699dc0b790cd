package dataset

import (
	"fmt"

	"github.com/ehsanranjbar/clamutils/number"
)

// RowSize returns the encoded size of a point of dimension dim.
func RowSize[T number.Scalar](dim int) int {
	return dim * number.NumBytes[T]()
}

// EncodeRow returns the concatenated encodings of the coordinates of point.
// Coordinate j starts at byte j*NumBytes[T]().
func EncodeRow[T number.Scalar](point []T) []byte {
	c := number.CodecFor[T]()
	bz := make([]byte, 0, len(point)*c.NumBytes())
	for _, v := range point {
		bz = c.Append(bz, v)
	}
	return bz
}

// DecodeRow decodes a row produced by EncodeRow. The row must be exactly RowSize[T](dim) bytes long.
func DecodeRow[T number.Scalar](bz []byte, dim int) ([]T, error) {
	c := number.CodecFor[T]()
	w := c.NumBytes()
	if len(bz) != dim*w {
		return nil, fmt.Errorf("%w: row of %d %s values needs %d bytes, got %d",
			number.ErrMalformedInput, dim, c, dim*w, len(bz))
	}

	point := make([]T, dim)
	for j := range point {
		v, err := c.Decode(bz[j*w:])
		if err != nil {
			return nil, fmt.Errorf("failed to decode coordinate %d: %w", j, err)
		}
		point[j] = v
	}
	return point, nil
}

// DecodeValue decodes coordinate j of an encoded row without decoding the others.
func DecodeValue[T number.Scalar](bz []byte, j int) (T, error) {
	c := number.CodecFor[T]()
	w := c.NumBytes()
	if j < 0 || (j+1)*w > len(bz) {
		var zero T
		return zero, fmt.Errorf("%w: coordinate %d of %s row needs %d bytes, got %d",
			number.ErrMalformedInput, j, c, (j+1)*w, len(bz))
	}
	return c.Decode(bz[j*w:])
}

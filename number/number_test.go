package number_test

import (
	"math"
	"testing"

	"github.com/ehsanranjbar/clamutils/number"
	"github.com/stretchr/testify/require"
)

func requireRoundTrip[T number.Scalar](t *testing.T, values ...T) {
	t.Helper()

	for _, v := range values {
		bz := number.ToBytes(v)
		require.Len(t, bz, number.NumBytes[T](), "ToBytes(%v)", v)

		got, err := number.FromBytes[T](bz)
		require.NoError(t, err, "FromBytes(%#x)", bz)
		require.Equal(t, v, got, "FromBytes(ToBytes(%v))", v)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("int8", func(t *testing.T) {
		requireRoundTrip[int8](t, 0, 1, -1, math.MinInt8, math.MaxInt8)
	})
	t.Run("int16", func(t *testing.T) {
		requireRoundTrip[int16](t, 0, 1, -1, math.MinInt16, math.MaxInt16)
	})
	t.Run("int32", func(t *testing.T) {
		requireRoundTrip[int32](t, 0, 1, -1, math.MinInt32, math.MaxInt32)
	})
	t.Run("int64", func(t *testing.T) {
		requireRoundTrip[int64](t, 0, 1, -1, math.MinInt64, math.MaxInt64)
	})
	t.Run("uint8", func(t *testing.T) {
		requireRoundTrip[uint8](t, 0, 1, 0x7f, 0x80, math.MaxUint8)
	})
	t.Run("uint16", func(t *testing.T) {
		requireRoundTrip[uint16](t, 0, 1, 0x1234, math.MaxUint16)
	})
	t.Run("uint32", func(t *testing.T) {
		requireRoundTrip[uint32](t, 0, 1, 0xdeadbeef, math.MaxUint32)
	})
	t.Run("uint64", func(t *testing.T) {
		requireRoundTrip[uint64](t, 0, 1, 1<<63, math.MaxUint64)
	})
	t.Run("float32", func(t *testing.T) {
		requireRoundTrip[float32](t, 0, -1.5, math.SmallestNonzeroFloat32, math.MaxFloat32,
			float32(math.Inf(1)), float32(math.Inf(-1)))
	})
	t.Run("float64", func(t *testing.T) {
		requireRoundTrip[float64](t, 0, -1.5, math.Pi, math.SmallestNonzeroFloat64, math.MaxFloat64,
			math.Inf(1), math.Inf(-1))
	})
	t.Run("bool", func(t *testing.T) {
		requireRoundTrip(t, false, true)
	})
}

func TestRoundTripPreservesFloatBits(t *testing.T) {
	negZero := math.Copysign(0, -1)
	got := number.MustFromBytes[float64](number.ToBytes(negZero))
	require.True(t, math.Signbit(got))

	nan := math.Float64frombits(0x7ff8000000000001)
	got = number.MustFromBytes[float64](number.ToBytes(nan))
	require.Equal(t, math.Float64bits(nan), math.Float64bits(got))

	nan32 := math.Float32frombits(0x7fc00001)
	got32 := number.MustFromBytes[float32](number.ToBytes(nan32))
	require.Equal(t, math.Float32bits(nan32), math.Float32bits(got32))
}

func TestNumBytes(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		expected int
	}{
		{"int8", number.NumBytes[int8](), 1},
		{"int16", number.NumBytes[int16](), 2},
		{"int32", number.NumBytes[int32](), 4},
		{"int64", number.NumBytes[int64](), 8},
		{"uint8", number.NumBytes[uint8](), 1},
		{"uint16", number.NumBytes[uint16](), 2},
		{"uint32", number.NumBytes[uint32](), 4},
		{"uint64", number.NumBytes[uint64](), 8},
		{"float32", number.NumBytes[float32](), 4},
		{"float64", number.NumBytes[float64](), 8},
		{"bool", number.NumBytes[bool](), 1},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, test.actual, "NumBytes[%s]()", test.name)
	}
}

func TestToBytesIsBigEndian(t *testing.T) {
	tests := []struct {
		actual   []byte
		expected []byte
	}{
		{number.ToBytes(uint32(math.MaxUint32)), []byte{0xff, 0xff, 0xff, 0xff}},
		{number.ToBytes(uint16(0x0102)), []byte{0x01, 0x02}},
		{number.ToBytes(int16(-2)), []byte{0xff, 0xfe}},
		{number.ToBytes(int32(1)), []byte{0x00, 0x00, 0x00, 0x01}},
		{number.ToBytes(int8(-1)), []byte{0xff}},
		{number.ToBytes(uint64(1) << 56), []byte{0x01, 0, 0, 0, 0, 0, 0, 0}},
		{number.ToBytes(float32(1)), []byte{0x3f, 0x80, 0x00, 0x00}},
		{number.ToBytes(-1.5), []byte{0xbf, 0xf8, 0, 0, 0, 0, 0, 0}},
		{number.ToBytes(true), []byte{0x01}},
		{number.ToBytes(false), []byte{0x00}},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, test.actual)
	}

	require.Equal(t, uint32(math.MaxUint32), number.MustFromBytes[uint32]([]byte{0xff, 0xff, 0xff, 0xff}))
	require.Equal(t, -1.5, number.MustFromBytes[float64](number.ToBytes(-1.5)))
}

func TestFromBytesReadsPrefix(t *testing.T) {
	v, err := number.FromBytes[uint16]([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), v)

	b, err := number.FromBytes[bool]([]byte{0x01, 0x07})
	require.NoError(t, err)
	require.True(t, b)
}

func TestFromBytesErrors(t *testing.T) {
	t.Run("short input", func(t *testing.T) {
		_, err := number.FromBytes[uint32]([]byte{0xff, 0xff, 0xff})
		require.ErrorIs(t, err, number.ErrMalformedInput)
		require.EqualError(t, err, "malformed input: uint32 needs 4 bytes, got 3")

		var decErr *number.DecodeError
		require.ErrorAs(t, err, &decErr)
		require.Equal(t, 4, decErr.Width)
	})

	t.Run("empty bool", func(t *testing.T) {
		_, err := number.FromBytes[bool](nil)
		require.ErrorIs(t, err, number.ErrMalformedInput)
	})

	t.Run("invalid bool", func(t *testing.T) {
		for _, bz := range [][]byte{{0x02}, {0xff}, {0x10, 0x01}} {
			_, err := number.FromBytes[bool](bz)
			require.ErrorIs(t, err, number.ErrInvalidEncoding, "FromBytes(%#x)", bz)
			require.NotErrorIs(t, err, number.ErrMalformedInput)
		}

		_, err := number.FromBytes[bool]([]byte{0x02})
		require.EqualError(t, err, "invalid encoding: cannot decode 0x02 as bool")
	})

	t.Run("error owns its bytes", func(t *testing.T) {
		buf := []byte{0x07, 0x00}
		_, err := number.FromBytes[bool](buf)
		buf[0] = 0x01

		var decErr *number.DecodeError
		require.ErrorAs(t, err, &decErr)
		require.Equal(t, []byte{0x07}, decErr.Bytes)

		short := []byte{0xab}
		_, err = number.FromBytes[uint16](short)
		short[0] = 0x00
		require.ErrorAs(t, err, &decErr)
		require.Equal(t, []byte{0xab}, decErr.Bytes)
	})

	t.Run("must panics", func(t *testing.T) {
		require.Panics(t, func() { number.MustFromBytes[bool]([]byte{0x02}) })
		require.Panics(t, func() { number.MustFromBytes[int64]([]byte{0x00}) })
	})
}

func TestAsFloat64(t *testing.T) {
	require.Equal(t, 1.0, number.AsFloat64(true))
	require.Equal(t, 0.0, number.AsFloat64(false))
	require.Equal(t, -128.0, number.AsFloat64(int8(math.MinInt8)))
	require.Equal(t, 65535.0, number.AsFloat64(uint16(math.MaxUint16)))
	require.Equal(t, float64(uint64(math.MaxUint64)), number.AsFloat64(uint64(math.MaxUint64)))
	f := float32(0.1)
	require.Equal(t, float64(f), number.AsFloat64(f))
	require.Equal(t, -1.5, number.AsFloat64(-1.5))
}

type flag bool

func TestAsBool(t *testing.T) {
	require.True(t, number.AsBool(true))
	require.False(t, number.AsBool(false))
	require.True(t, number.AsBool(flag(true)))
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "float32", number.TypeName[float32]())
	require.Equal(t, "uint8", number.TypeName[byte]())
	require.Equal(t, "bool", number.TypeName[bool]())
}

func TestSum(t *testing.T) {
	require.Equal(t, int32(6), number.Sum[int32](1, 2, 3))
	require.Equal(t, 0.0, number.Sum[float64]())
	require.Equal(t, uint8(4), number.Sum[uint8](255, 5))
}

func TestAppendBytes(t *testing.T) {
	var row []byte
	row = number.AppendBytes(row, int16(1))
	row = number.AppendBytes(row, int16(-1))
	require.Equal(t, []byte{0x00, 0x01, 0xff, 0xff}, row)

	c := number.CodecFor[int16]()
	v, err := c.Decode(row[c.NumBytes():])
	require.NoError(t, err)
	require.Equal(t, int16(-1), v)
}

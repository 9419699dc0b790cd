package indices

import (
	"fmt"
	"math"

	roaring "github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// FromBitmap returns an enumerator over the members of bm in ascending order.
func FromBitmap(bm *roaring.Bitmap) *Indices {
	return &Indices{src: &bitmapSource{it: bm.Iterator()}}
}

// FromBitmap64 is like FromBitmap for 64-bit bitmaps. Next panics on a
// member greater than math.MaxInt.
func FromBitmap64(bm *roaring64.Bitmap) *Indices {
	return &Indices{src: &bitmap64Source{it: bm.Iterator()}}
}

// Bitmap consumes x and returns the set of indices it yielded.
func (x *Indices) Bitmap() *roaring64.Bitmap {
	bm := roaring64.New()
	for v := range x.All() {
		bm.Add(uint64(v))
	}
	return bm
}

type bitmapSource struct {
	it roaring.IntIterable
}

func (s *bitmapSource) next() (int, bool) {
	if !s.it.HasNext() {
		return 0, false
	}
	v := s.it.Next()
	if uint64(v) > math.MaxInt {
		panic(fmt.Sprintf("indices: %d overflows int", v))
	}
	return int(v), true
}

type bitmap64Source struct {
	it roaring64.IntIterable64
}

func (s *bitmap64Source) next() (int, bool) {
	if !s.it.HasNext() {
		return 0, false
	}
	v := s.it.Next()
	if v > math.MaxInt {
		panic(fmt.Sprintf("indices: %d overflows int", v))
	}
	return int(v), true
}

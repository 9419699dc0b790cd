// Package indices provides a lazy, single-pass enumerator over the point
// indices that belong to a cluster.
//
// A cluster made by merging two children exposes its members as the Chain of
// the children's enumerators, so no index collection is copied while walking
// up a hierarchy.
package indices

import (
	"fmt"
	"iter"

	"golang.org/x/exp/constraints"
)

// Indices enumerates point indices. It is either Direct, reading an ordered
// source, or a Chain of two nested Indices. The zero value is exhausted.
//
// Indices is consumed by a single goroutine and cannot be rewound. The source
// of a Direct enumerator is borrowed and must not be mutated until the
// enumerator is exhausted.
type Indices struct {
	src         source
	left, right *Indices
}

type source interface {
	next() (int, bool)
}

// Direct returns an enumerator over s in slice order.
func Direct(s []int) *Indices {
	return DirectOf(s)
}

// DirectOf returns an enumerator over an integer slice of any element type.
// Elements are converted to int as they are yielded; Next panics on an
// element that does not fit in an int.
func DirectOf[I constraints.Integer](s []I) *Indices {
	return &Indices{src: &sliceSource[I]{s: s}}
}

// Chain returns an enumerator that yields everything from left, then
// everything from right. The chain takes ownership of both. A nil side is
// treated as empty.
func Chain(left, right *Indices) *Indices {
	switch {
	case left == nil && right == nil:
		return &Indices{}
	case left == nil:
		return right
	case right == nil:
		return left
	}
	return &Indices{left: left, right: right}
}

// Concat chains parts in order.
func Concat(parts ...*Indices) *Indices {
	var x *Indices
	for i := len(parts) - 1; i >= 0; i-- {
		x = Chain(parts[i], x)
	}
	if x == nil {
		return &Indices{}
	}
	return x
}

// Next returns the next index. The second result is false once the
// enumerator is exhausted, and stays false on every later call.
func (x *Indices) Next() (int, bool) {
	for {
		switch {
		case x.src != nil:
			if v, ok := x.src.next(); ok {
				return v, true
			}
			x.src = nil
			return 0, false
		case x.left == nil:
			return 0, false
		case x.left.left != nil:
			// (a+b)+c becomes a+(b+c) so the left side is never a chain.
			l := x.left
			x.left, l.left, l.right, x.right = l.left, l.right, x.right, l
		default:
			if v, ok := x.left.Next(); ok {
				return v, true
			}
			*x = *x.right
		}
	}
}

// All returns an iterator that consumes x.
func (x *Indices) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for v, ok := x.Next(); ok; v, ok = x.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// Collect consumes x and returns the indices as a slice.
func (x *Indices) Collect() []int {
	var s []int
	for v := range x.All() {
		s = append(s, v)
	}
	return s
}

// Count consumes x and returns the number of indices it yielded.
func (x *Indices) Count() int {
	var n int
	for range x.All() {
		n++
	}
	return n
}

type sliceSource[I constraints.Integer] struct {
	s []I
	i int
}

func (s *sliceSource[I]) next() (int, bool) {
	if s.i >= len(s.s) {
		return 0, false
	}
	v := s.s[s.i]
	s.i++
	n := int(v)
	if I(n) != v || (n < 0) != (v < 0) {
		panic(fmt.Sprintf("indices: %d overflows int", v))
	}
	return n, true
}

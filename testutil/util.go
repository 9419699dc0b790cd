package testutil

import (
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// PrepareDB opens an in-memory BadgerDB that is closed when the test ends.
func PrepareDB(t testing.TB) *badger.DB {
	opt := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opt)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// Points returns n points of dimension dim whose coordinates are f(i, j).
func Points[T any](n, dim int, f func(i, j int) T) [][]T {
	points := make([][]T, n)
	for i := range points {
		points[i] = make([]T, dim)
		for j := range points[i] {
			points[i][j] = f(i, j)
		}
	}
	return points
}

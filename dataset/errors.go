package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a dataset has no header.
	ErrNotFound = errors.New("dataset not found")
	// ErrExists is returned when creating a dataset whose name is taken.
	ErrExists = errors.New("dataset already exists")
	// ErrTypeMismatch is returned when a dataset is opened with another scalar type than it was created with.
	ErrTypeMismatch = errors.New("dataset type mismatch")
	// ErrIndexOutOfRange is returned when a point index is not below the dataset length.
	ErrIndexOutOfRange = errors.New("point index out of range")
	// ErrInvalidDimension is returned when a dataset is created with a non-positive dimension.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrRegistryFull is returned when the registry has no free prefix left.
	ErrRegistryFull = errors.New("registry is full")
)

// DimensionMismatchError indicates a point whose length differs from the dataset dimension.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

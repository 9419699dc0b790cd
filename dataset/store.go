// Package dataset persists fixed-dimension points of a scalar type in BadgerDB.
//
// Each point is stored as one row of fixed-width big-endian coordinates, so
// the size of a row and the offset of every coordinate follow from the type
// and the dimension alone.
package dataset

import (
	"bytes"
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ehsanranjbar/clamutils/indices"
	"github.com/ehsanranjbar/clamutils/number"
	"github.com/google/uuid"
	msgpack "github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const (
	headerTag byte = 0x00
	rowTag    byte = 0x01
)

// Header describes a persisted dataset.
type Header struct {
	ID    uuid.UUID `msgpack:"id"`
	Name  string    `msgpack:"name"`
	Type  string    `msgpack:"type"`
	Width int       `msgpack:"width"`
	Dim   int       `msgpack:"dim"`
	Count int       `msgpack:"count"`
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger of the store.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Store is a dataset of points whose coordinates are of type T.
//
// A Store is safe for concurrent use. Only one Store per dataset should be
// open at a time since the point count is cached.
type Store[T number.Scalar] struct {
	db     *badger.DB
	prefix []byte
	logger *zap.Logger

	// header fields other than Count are fixed once the store is returned.
	header  Header
	dropped bool
	mu      sync.RWMutex
}

// Create creates a new empty dataset named name with points of dimension dim.
func Create[T number.Scalar](db *badger.DB, reg *Registry, name string, dim int, opts ...Option) (*Store[T], error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}

	prefix, err := reg.Name(name)
	if err != nil {
		return nil, fmt.Errorf("failed to register dataset %q: %w", name, err)
	}

	s := newStore[T](db, prefix, opts)
	s.header = Header{
		ID:    uuid.New(),
		Name:  name,
		Type:  number.TypeName[T](),
		Width: number.NumBytes[T](),
		Dim:   dim,
	}

	err = db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(headerKey(prefix))
		if err == nil {
			return fmt.Errorf("%w: %q", ErrExists, name)
		}
		if err != badger.ErrKeyNotFound {
			return fmt.Errorf("failed to get header: %w", err)
		}
		return setHeader(txn, prefix, &s.header)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("created dataset",
		zap.String("name", name),
		zap.Stringer("id", s.header.ID),
		zap.String("type", s.header.Type),
		zap.Int("dim", dim),
	)
	return s, nil
}

// Open opens an existing dataset. It fails with ErrTypeMismatch if the
// dataset was created with another scalar type than T.
func Open[T number.Scalar](db *badger.DB, reg *Registry, name string, opts ...Option) (*Store[T], error) {
	h, prefix, err := readHeader(db, reg, name)
	if err != nil {
		return nil, err
	}
	if h.Type != number.TypeName[T]() || h.Width != number.NumBytes[T]() {
		return nil, fmt.Errorf("%w: dataset %q holds %s, not %s", ErrTypeMismatch, name, h.Type, number.TypeName[T]())
	}

	s := newStore[T](db, prefix, opts)
	s.header = h
	return s, nil
}

// ReadHeader reads the header of a dataset without knowing its type.
func ReadHeader(db *badger.DB, reg *Registry, name string) (Header, error) {
	h, _, err := readHeader(db, reg, name)
	return h, err
}

func newStore[T number.Scalar](db *badger.DB, prefix []byte, opts []Option) *Store[T] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		db:     db,
		prefix: prefix,
		logger: o.logger,
	}
}

func readHeader(db *badger.DB, reg *Registry, name string) (Header, []byte, error) {
	prefix, ok := reg.Lookup(name)
	if !ok {
		return Header{}, nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	var h Header
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(headerKey(prefix))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("failed to get header: %w", err)
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &h)
		})
	})
	return h, prefix, err
}

func setHeader(txn *badger.Txn, prefix []byte, h *Header) error {
	data, err := msgpack.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	return txn.Set(headerKey(prefix), data)
}

// Header returns a copy of the dataset header.
func (s *Store[T]) Header() Header {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.header
}

// ID returns the unique id assigned to the dataset on creation.
func (s *Store[T]) ID() uuid.UUID {
	return s.header.ID
}

// Dim returns the dimension of the points.
func (s *Store[T]) Dim() int {
	return s.header.Dim
}

// Len returns the number of points.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.header.Count
}

// Append appends points and returns the index of the first one.
//
// Rows are written in as many transactions as badger needs and the header is
// committed last, so the points become visible together. Rows left behind by
// a failed Append are never read and get overwritten by the next one.
func (s *Store[T]) Append(points ...[]T) (int, error) {
	for _, p := range points {
		if len(p) != s.header.Dim {
			return 0, &DimensionMismatchError{Expected: s.header.Dim, Actual: len(p)}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dropped {
		return 0, s.errDropped()
	}

	first := s.header.Count
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for k, p := range points {
		err := wb.Set(rowKey(s.prefix, first+k), EncodeRow(p))
		if err != nil {
			return 0, fmt.Errorf("failed to set point %d: %w", first+k, err)
		}
	}
	err := wb.Flush()
	if err != nil {
		return 0, fmt.Errorf("failed to write points %d-%d: %w", first, first+len(points)-1, err)
	}

	h := s.header
	h.Count += len(points)
	err = s.db.Update(func(txn *badger.Txn) error {
		return setHeader(txn, s.prefix, &h)
	})
	if err != nil {
		return 0, err
	}
	s.header.Count = h.Count

	s.logger.Debug("appended points",
		zap.String("dataset", h.Name),
		zap.Int("first", first),
		zap.Int("count", len(points)),
	)
	return first, nil
}

// Get returns the point at index i.
func (s *Store[T]) Get(i int) ([]T, error) {
	n, err := s.count()
	if err != nil {
		return nil, err
	}

	var point []T
	err = s.db.View(func(txn *badger.Txn) error {
		var err error
		point, err = s.get(txn, i, n)
		return err
	})
	return point, err
}

// Scan calls fn for every point enumerated by idx, in enumeration order.
// A nil idx scans all points in index order. Scanning stops at the first error.
func (s *Store[T]) Scan(idx *indices.Indices, fn func(i int, point []T) error) error {
	n, err := s.count()
	if err != nil {
		return err
	}

	return s.db.View(func(txn *badger.Txn) error {
		if idx == nil {
			return s.scanAll(txn, n, fn)
		}

		return each(idx, n, func(i int) error {
			point, err := s.get(txn, i, n)
			if err != nil {
				return err
			}
			return fn(i, point)
		})
	})
}

// Column returns coordinate j of the points enumerated by idx, widened to float64.
// A nil idx selects all points.
func (s *Store[T]) Column(idx *indices.Indices, j int) ([]float64, error) {
	if j < 0 || j >= s.header.Dim {
		return nil, fmt.Errorf("%w: coordinate %d of %d", ErrIndexOutOfRange, j, s.header.Dim)
	}
	n, err := s.count()
	if err != nil {
		return nil, err
	}

	var col []float64
	err = s.db.View(func(txn *badger.Txn) error {
		return each(idx, n, func(i int) error {
			item, err := s.item(txn, i, n)
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				v, err := DecodeValue[T](val, j)
				if err != nil {
					return fmt.Errorf("failed to decode point %d: %w", i, err)
				}
				col = append(col, number.AsFloat64(v))
				return nil
			})
		})
	})
	return col, err
}

// Drop deletes the header and all points of the dataset. The name stays
// registered, so the dataset can be created again. Every later call on s
// fails with ErrNotFound.
func (s *Store[T]) Drop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dropped {
		return s.errDropped()
	}

	err := s.db.DropPrefix(bytes.Clone(s.prefix))
	if err != nil {
		return fmt.Errorf("failed to drop dataset %q: %w", s.header.Name, err)
	}
	s.header.Count = 0
	s.dropped = true

	s.logger.Info("dropped dataset", zap.String("name", s.header.Name))
	return nil
}

func (s *Store[T]) count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dropped {
		return 0, s.errDropped()
	}
	return s.header.Count, nil
}

func (s *Store[T]) errDropped() error {
	return fmt.Errorf("%w: dataset %q was dropped", ErrNotFound, s.header.Name)
}

// each calls fn for the indices of idx, or for 0..n-1 if idx is nil.
func each(idx *indices.Indices, n int, fn func(i int) error) error {
	if idx == nil {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range idx.All() {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store[T]) item(txn *badger.Txn, i, n int) (*badger.Item, error) {
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	item, err := txn.Get(rowKey(s.prefix, i))
	if err != nil {
		return nil, fmt.Errorf("failed to get point %d: %w", i, err)
	}
	return item, nil
}

func (s *Store[T]) get(txn *badger.Txn, i, n int) ([]T, error) {
	item, err := s.item(txn, i, n)
	if err != nil {
		return nil, err
	}

	var point []T
	err = item.Value(func(val []byte) error {
		point, err = DecodeRow[T](val, s.header.Dim)
		if err != nil {
			return fmt.Errorf("failed to decode point %d: %w", i, err)
		}
		return nil
	})
	return point, err
}

func (s *Store[T]) scanAll(txn *badger.Txn, n int, fn func(i int, point []T) error) error {
	prefix := append(bytes.Clone(s.prefix), rowTag)
	it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 100})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		i := int(number.MustFromBytes[uint64](item.Key()[len(prefix):]))
		if i >= n {
			break
		}

		var point []T
		err := item.Value(func(val []byte) error {
			var err error
			point, err = DecodeRow[T](val, s.header.Dim)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to decode point %d: %w", i, err)
		}
		if err := fn(i, point); err != nil {
			return err
		}
	}
	return nil
}

func headerKey(prefix []byte) []byte {
	return append(bytes.Clone(prefix), headerTag)
}

func rowKey(prefix []byte, i int) []byte {
	return number.AppendBytes(append(bytes.Clone(prefix), rowTag), uint64(i))
}

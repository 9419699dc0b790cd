package dataset

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ehsanranjbar/clamutils/number"
	msgpack "github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Registry associates dataset names with unique fixed-length key prefixes.
// The assignments are persisted in the database so a reopened registry hands
// out the same prefixes.
type Registry struct {
	db      *badger.DB
	key     []byte
	keyLen  int
	next    uint64
	m       map[string][]byte
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewRegistry creates a new Registry and loads its persisted state.
func NewRegistry(db *badger.DB, opts ...func(*Registry)) (*Registry, error) {
	reg := &Registry{
		db:     db,
		keyLen: 1,
		next:   1,
		m:      make(map[string][]byte),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(reg)
	}
	if reg.keyLen < 1 || reg.keyLen > 8 {
		return nil, fmt.Errorf("registry key length must be between 1 and 8, got %d", reg.keyLen)
	}
	if len(reg.key) == 0 {
		reg.key = make([]byte, reg.keyLen)
	}

	err := reg.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

// WithRegistryKey sets the key the registry state is stored under.
// The key must not start with a prefix the registry hands out.
func WithRegistryKey(key []byte) func(*Registry) {
	return func(reg *Registry) {
		reg.key = key
	}
}

// WithRegistryKeyLen sets the length of the prefixes, between 1 and 8 bytes.
// The all-zero prefix is never handed out, so at most 256^n-1 datasets fit.
func WithRegistryKeyLen(n int) func(*Registry) {
	return func(reg *Registry) {
		reg.keyLen = n
	}
}

// WithRegistryLogger sets the logger of the registry.
func WithRegistryLogger(logger *zap.Logger) func(*Registry) {
	return func(reg *Registry) {
		reg.logger = logger
	}
}

func (reg *Registry) load() error {
	return reg.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(reg.key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return fmt.Errorf("failed to get registry item: %w", err)
		}

		return item.Value(func(val []byte) error {
			dec := msgpack.GetDecoder()
			dec.Reset(bytes.NewReader(val))
			defer msgpack.PutDecoder(dec)

			err := dec.DecodeMulti(&reg.m, &reg.next)
			if err != nil {
				return fmt.Errorf("failed to decode registry: %w", err)
			}
			return nil
		})
	})
}

// MustName is like Name but panics if an error occurs.
func (reg *Registry) MustName(name string) []byte {
	key, err := reg.Name(name)
	if err != nil {
		panic(err)
	}
	return key
}

// Name returns the prefix of name, assigning a new one if name is unknown.
func (reg *Registry) Name(name string) ([]byte, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if key, ok := reg.m[name]; ok {
		return key, nil
	}

	if reg.next == 0 || (reg.keyLen < 8 && reg.next>>(8*reg.keyLen) != 0) {
		return nil, ErrRegistryFull
	}

	key := number.ToBytes(reg.next)[8-reg.keyLen:]
	reg.m[name] = key
	reg.next++

	err := reg.update()
	if err != nil {
		delete(reg.m, name)
		reg.next--
		return nil, fmt.Errorf("failed to update registry: %w", err)
	}

	reg.logger.Debug("registered dataset name",
		zap.String("name", name),
		zap.Binary("prefix", key),
	)
	return key, nil
}

// Lookup returns the prefix of name without assigning one.
func (reg *Registry) Lookup(name string) ([]byte, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	key, ok := reg.m[name]
	return key, ok
}

// Names returns the registered names in ascending order.
func (reg *Registry) Names() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	names := make([]string, 0, len(reg.m))
	for name := range reg.m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (reg *Registry) update() error {
	return reg.db.Update(func(txn *badger.Txn) error {
		enc := msgpack.GetEncoder()
		var buf bytes.Buffer
		enc.Reset(&buf)
		defer msgpack.PutEncoder(enc)

		err := enc.EncodeMulti(reg.m, reg.next)
		if err != nil {
			return fmt.Errorf("failed to encode registry: %w", err)
		}

		err = txn.Set(reg.key, buf.Bytes())
		if err != nil {
			return fmt.Errorf("failed to set registry item: %w", err)
		}
		return nil
	})
}

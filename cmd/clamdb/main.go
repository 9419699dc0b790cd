// clamdb inspects point datasets stored in a BadgerDB directory.
//
// Usage:
//
//	clamdb -config clamdb.yaml list
//	clamdb -config clamdb.yaml info <name>
//	clamdb -config clamdb.yaml dump <name> [i,j,...]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ehsanranjbar/clamutils/dataset"
	"github.com/ehsanranjbar/clamutils/indices"
	"github.com/ehsanranjbar/clamutils/internal/config"
	logpkg "github.com/ehsanranjbar/clamutils/internal/logger"
	"github.com/ehsanranjbar/clamutils/number"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: clamdb -config path list | info <name> | dump <name> [i,j,...]")

func main() {
	configPath := flag.String("config", "clamdb.yaml", "path to the YAML config")
	flag.Parse()

	if err := run(*configPath, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, args []string, w io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logpkg.New(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := openDB(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []func(*dataset.Registry){
		dataset.WithRegistryKeyLen(cfg.Storage.RegistryKeyLen),
		dataset.WithRegistryLogger(logger),
	}
	if cfg.Storage.RegistryKey != "" {
		opts = append(opts, dataset.WithRegistryKey([]byte(cfg.Storage.RegistryKey)))
	}
	reg, err := dataset.NewRegistry(db, opts...)
	if err != nil {
		return err
	}

	return execute(db, reg, args, w)
}

func openDB(cfg config.StorageConfig, logger *zap.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(logpkg.Badger(logger))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func execute(db *badger.DB, reg *dataset.Registry, args []string, w io.Writer) error {
	switch args[0] {
	case "list":
		for _, name := range reg.Names() {
			fmt.Fprintln(w, name)
		}
		return nil

	case "info":
		if len(args) != 2 {
			return errUsage
		}
		h, err := dataset.ReadHeader(db, reg, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "name:  %s\nid:    %s\ntype:  %s (%d bytes)\ndim:   %d\ncount: %d\n",
			h.Name, h.ID, h.Type, h.Width, h.Dim, h.Count)
		return nil

	case "dump":
		if len(args) < 2 || len(args) > 3 {
			return errUsage
		}
		var idx *indices.Indices
		if len(args) == 3 {
			s, err := parseIndices(args[2])
			if err != nil {
				return err
			}
			idx = indices.Direct(s)
		}
		return dump(db, reg, args[1], idx, w)

	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func dump(db *badger.DB, reg *dataset.Registry, name string, idx *indices.Indices, w io.Writer) error {
	h, err := dataset.ReadHeader(db, reg, name)
	if err != nil {
		return err
	}

	switch h.Type {
	case number.TypeName[int8]():
		return dumpRows[int8](db, reg, name, idx, w)
	case number.TypeName[int16]():
		return dumpRows[int16](db, reg, name, idx, w)
	case number.TypeName[int32]():
		return dumpRows[int32](db, reg, name, idx, w)
	case number.TypeName[int64]():
		return dumpRows[int64](db, reg, name, idx, w)
	case number.TypeName[uint8]():
		return dumpRows[uint8](db, reg, name, idx, w)
	case number.TypeName[uint16]():
		return dumpRows[uint16](db, reg, name, idx, w)
	case number.TypeName[uint32]():
		return dumpRows[uint32](db, reg, name, idx, w)
	case number.TypeName[uint64]():
		return dumpRows[uint64](db, reg, name, idx, w)
	case number.TypeName[float32]():
		return dumpRows[float32](db, reg, name, idx, w)
	case number.TypeName[float64]():
		return dumpRows[float64](db, reg, name, idx, w)
	case number.TypeName[bool]():
		return dumpRows[bool](db, reg, name, idx, w)
	default:
		return fmt.Errorf("dataset %q has unsupported type %q", name, h.Type)
	}
}

func dumpRows[T number.Scalar](db *badger.DB, reg *dataset.Registry, name string, idx *indices.Indices, w io.Writer) error {
	store, err := dataset.Open[T](db, reg, name)
	if err != nil {
		return err
	}
	return store.Scan(idx, func(i int, point []T) error {
		_, err := fmt.Fprintf(w, "%d\t%v\n", i, point)
		return err
	})
}

func parseIndices(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	idx := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", p, err)
		}
		idx = append(idx, i)
	}
	return idx, nil
}

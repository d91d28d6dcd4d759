package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// ErrMiss is returned by the shared tier when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// SharedStore is the L2 cache tier, shared across processes. Entries
// carry their own TTL, enforced by the store.
type SharedStore interface {
	// Get returns the value for key, or ErrMiss.
	Get(key string) ([]byte, error)

	// Put stores value under key with the given TTL.
	Put(key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns all live keys in the store.
	Keys() ([]string, error)

	// Close releases store resources.
	Close() error
}

// badgerStore implements SharedStore on a BadgerDB instance, using
// Badger's native entry TTL for expiration.
type badgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerCacheLogger adapts slog.Logger to badger.Logger interface.
type badgerCacheLogger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerCacheLogger)(nil)

func (bl *badgerCacheLogger) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerCacheLogger) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerCacheLogger) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerCacheLogger) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// NewBadgerStore opens a BadgerDB-backed shared store at the given
// path, or in memory when inMemory is set.
func NewBadgerStore(filePath string, inMemory bool) (SharedStore, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(filePath, 0755); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerCacheLogger{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &badgerStore{
		db:     db,
		logger: slog.Default().With("component", "cache-l2"),
	}, nil
}

func (s *badgerStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrMiss
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *badgerStore) Put(key string, value []byte, ttl time.Duration) error {
	return s.db.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return tx.SetEntry(entry)
	})
}

func (s *badgerStore) Delete(key string) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Delete([]byte(key))
	})
}

func (s *badgerStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, string(iter.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}

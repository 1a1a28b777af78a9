package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// StatsCache keeps per-user counters (starred count, newest item id) close to
// the item service. Entries expire after the TTL and are dropped whenever the
// user's item state changes.
type StatsCache struct {
	db  *DB
	ttl time.Duration
}

// NewStatsCache creates a new stats cache
func NewStatsCache(db *DB, ttl time.Duration) *StatsCache {
	return &StatsCache{db: db, ttl: ttl}
}

func statsPrefix(userID string) []byte {
	return []byte(fmt.Sprintf("stats:%s:", userID))
}

func statsKey(userID, stat string) []byte {
	return append(statsPrefix(userID), stat...)
}

// Get returns a cached value. The boolean is false on a miss.
func (c *StatsCache) Get(ctx context.Context, userID, stat string) (int64, bool, error) {
	var value int64

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(statsKey(userID, stat))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt stats entry %s", item.Key())
			}
			value = int64(binary.BigEndian.Uint64(val))
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return value, true, nil
}

// Set stores a value with the cache TTL
func (c *StatsCache) Set(ctx context.Context, userID, stat string, value int64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(value))

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(statsKey(userID, stat), buf)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Invalidate removes every cached value of the user
func (c *StatsCache) Invalidate(ctx context.Context, userID string) error {
	prefix := statsPrefix(userID)

	return c.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

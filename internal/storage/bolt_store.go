package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	harvestedBucket  = "harvested_articles"
	expiryValueBytes = 8
)

var errBucketMissing = errors.New("harvested bucket missing")

// boltStore implements a Store backed by BoltDB. Keys are article ids, values the
// big-endian unix second at which the id may be harvested again.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	articleTTL      time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(harvestedBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		articleTTL:      opts.ArticleTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenArticle reports whether id was harvested within the TTL.
func (b *boltStore) SeenArticle(id string) (bool, error) {
	unseen, err := b.FilterUnseen([]string{id})
	if err != nil {
		return false, err
	}
	return len(unseen) == 0, nil
}

// FilterUnseen drops ids harvested within the TTL. Expired entries met on the way
// are left for the periodic sweep so the lookup stays a read-only transaction.
func (b *boltStore) FilterUnseen(ids []string) ([]string, error) {
	if b == nil || b.db == nil {
		return append([]string(nil), ids...), nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(ids))
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(harvestedBucket))
		if bucket == nil {
			return errBucketMissing
		}
		for _, id := range ids {
			expiry, ok := decodeExpiry(bucket.Get([]byte(id)))
			if ok && expiry.After(now) {
				continue
			}
			out = append(out, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkArticles records ids as harvested in a single transaction.
func (b *boltStore) MarkArticles(ids ...string) error {
	if b == nil || b.db == nil || len(ids) == 0 {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(now.Add(b.articleTTL).Unix()))

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(harvestedBucket))
		if bucket == nil {
			return errBucketMissing
		}
		for _, id := range ids {
			if id == "" {
				continue
			}
			if err := bucket.Put([]byte(id), buf); err != nil {
				return fmt.Errorf("mark %s: %w", id, err)
			}
		}
		return nil
	})
}

// maybeCleanupExpired removes expired ids on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(harvestedBucket))
		if bucket == nil {
			return errBucketMissing
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				// Next after Delete may skip a key; re-seek from a copy instead.
				key := append([]byte(nil), k...)
				if err := cursor.Delete(); err != nil {
					return err
				}
				k, v = cursor.Seek(key)
				continue
			}
			k, v = cursor.Next()
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// count returns the number of stored ids, expired or not.
func (b *boltStore) count() int {
	n := 0
	_ = b.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket([]byte(harvestedBucket)); bucket != nil {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return n
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

// ABOUTME: bbolt-backed session storage
// ABOUTME: Keeps the session record in a single bucket of a local database file

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// BoltFile is the database file name inside the config directory
	BoltFile = "bloom.db"

	boltBucket = "session"
)

// BoltStorage persists the record in a bbolt database
type BoltStorage struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens (or creates) the database at path and ensures the bucket exists
func OpenBolt(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session database %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStorage{db: db, bucket: []byte(boltBucket)}, nil
}

func (b *BoltStorage) Load(ctx context.Context) (*Persisted, error) {
	if b == nil || b.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var p *Persisted
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(b.bucket).Get([]byte(StorageKey))
		if v == nil {
			return nil
		}
		var rec Persisted
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		p = &rec
		return nil
	})
	return p, err
}

func (b *BoltStorage) Save(ctx context.Context, p Persisted) error {
	if b == nil || b.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(StorageKey), payload)
	})
}

func (b *BoltStorage) Clear(ctx context.Context) error {
	if b == nil || b.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(StorageKey))
	})
}

// Close closes the database
func (b *BoltStorage) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

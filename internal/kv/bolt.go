package kv

import (
	"fmt"
	"log"
	"time"

	"github.com/boltdb/bolt"
)

// Bolt persists keys in a BoltDB file, one bucket per origin.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens (or creates) the database at path and ensures the origin bucket exists.
func OpenBolt(path, origin string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB database: %w", err)
	}
	bucket := []byte(origin)
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create BoltDB bucket '%s': %w", origin, err)
	}
	return &Bolt{db: db, bucket: bucket}, nil
}

func (b *Bolt) Get(key string) (string, bool) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		// Get's slice is only valid inside the transaction; string() copies it.
		if data := bucket.Get([]byte(key)); data != nil {
			value, found = string(data), true
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: kv/bolt: get '%s': %v", key, err)
		return "", false
	}
	return value, found
}

func (b *Bolt) Set(key, value string) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(b.bucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if err != nil {
		log.Printf("ERROR: kv/bolt: set '%s': %v", key, err)
	}
}

func (b *Bolt) Remove(key string) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		log.Printf("ERROR: kv/bolt: remove '%s': %v", key, err)
	}
}

// Keys returns all keys of the origin bucket in byte order.
func (b *Bolt) Keys() []string {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		log.Printf("ERROR: kv/bolt: list keys: %v", err)
		return nil
	}
	return keys
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

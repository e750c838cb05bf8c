// Package kv is the durable, origin-scoped string key/value store every local
// component persists through. Backends never return errors to callers: a
// failing or missing backend behaves as an empty store.
package kv

import (
	"encoding/json"
	"io"
	"log"
)

// Store is a synchronous string key/value store scoped to one origin.
// Implementations must not panic or block on remote I/O indefinitely;
// failures are logged and surface as "absent" (Get) or no-ops (Set, Remove).
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
	Keys() []string
}

// Backend is a Store that owns resources which must be released on shutdown.
type Backend interface {
	Store
	io.Closer
}

// LoadJSON decodes the value at key into a T. Missing or corrupt values yield fallback.
func LoadJSON[T any](s Store, key string, fallback T) T {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return fallback
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fallback
	}
	return out
}

// SaveJSON encodes v and stores it at key. Encoding failures are logged and dropped.
func SaveJSON(s Store, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("ERROR: kv: failed to encode value for key '%s': %v", key, err)
		return
	}
	s.Set(key, string(data))
}

// Nop is the store used when no persistent backing is available.
type Nop struct{}

func (Nop) Get(string) (string, bool) { return "", false }
func (Nop) Set(string, string)        {}
func (Nop) Remove(string)             {}
func (Nop) Keys() []string            { return nil }
func (Nop) Close() error              { return nil }

// Package cache is the local persistence layer for the storefront client.
// Every entity store keeps its working copy here and treats the remote
// backend as a best-effort sync target.
package cache

import "encoding/json"

// Store is a flat key/value blob store.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Read loads key from s and decodes it into T. A missing slot is seeded with
// def and def is returned. A corrupt slot also falls back to def: the cache
// is recoverable from the remote, so a decode failure is never fatal.
func Read[T any](s Store, key string, def T) T {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		Write(s, key, def)
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		Write(s, key, def)
		return def
	}
	return v
}

// Write encodes v and stores it under key.
func Write[T any](s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, raw)
}

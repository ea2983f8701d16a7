// Package store defines the persistent key-value contract the domain
// repository writes through to.
//
// A Store holds whole documents under fixed keys. Every Save replaces the
// document; there is no diffing, no partial write and no schema version.
//
// Implementations live in sub-packages:
//
//	store/memory    in-process map, optional byte quota
//	store/sqlite    single key-value table on modernc.org/sqlite
//	store/redis     GET/SET/DEL on go-redis
//	store/mongo     one document per key on mongo-driver
//	store/postgres  key-value table on a pgx pool
//
// store/backend picks one of them from config.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Fixed document keys.
const (
	KeyUsers       = "users"
	KeyPosts       = "posts"
	KeyCurrentUser = "currentUser"
)

// Store is durable key-value storage for serialized collections.
type Store interface {
	// Load returns the document stored under key. ok is false when the key
	// has never been saved or was cleared.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Save replaces the document stored under key.
	Save(ctx context.Context, key string, data []byte) error
	// Clear removes key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	// Keys returns the stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
}

// LoadJSON decodes the document under key into v. It reports false, and
// leaves v untouched, when the key is absent.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, ok, err := s.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("store: loading %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("store: decoding %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and saves it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", key, err)
	}
	if err := s.Save(ctx, key, data); err != nil {
		return fmt.Errorf("store: saving %s: %w", key, err)
	}
	return nil
}

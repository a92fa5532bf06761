// Package kv is a small versioned key-value store. Every write is a
// compare-and-swap on the version, so concurrent writers of the same key
// never silently overwrite each other.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("kv: not found")
	ErrConflict = errors.New("kv: version conflict")
)

// Item is a stored value. Versions start at 1 and grow by one per write.
type Item struct {
	Value   []byte
	Version int64
}

type Store interface {
	Get(ctx context.Context, key string) (Item, error)
	// Put writes value if the current version equals expectVersion
	// (0 means the key must not exist) and returns the new version.
	Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error)
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by networked backends for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

const maxUpdateAttempts = 5

// Update runs a read-modify-write loop on key. fn receives the current value
// (nil when absent) and returns the replacement.
func Update(ctx context.Context, s Store, key string, fn func(cur []byte) ([]byte, error)) error {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var cur []byte
		var version int64
		item, err := s.Get(ctx, key)
		switch {
		case err == nil:
			cur, version = item.Value, item.Version
		case errors.Is(err, ErrNotFound):
		default:
			return err
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}
		if _, err := s.Put(ctx, key, next, version); err != nil {
			if errors.Is(err, ErrConflict) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("kv: update %q: %w", key, lastErr)
}

// UpdateJSON decodes the value at key into a T (zero when absent), applies
// fn and writes it back. It returns the value that was stored.
func UpdateJSON[T any](ctx context.Context, s Store, key string, fn func(v *T) error) (T, error) {
	var out T
	err := Update(ctx, s, key, func(cur []byte) ([]byte, error) {
		var v T
		if len(cur) > 0 {
			if err := json.Unmarshal(cur, &v); err != nil {
				return nil, fmt.Errorf("kv: decode %q: %w", key, err)
			}
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		out = v
		return json.Marshal(v)
	})
	return out, err
}

// GetJSON decodes the value at key; found is false when the key is absent.
func GetJSON[T any](ctx context.Context, s Store, key string) (v T, found bool, err error) {
	item, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(item.Value, &v); err != nil {
		return v, false, fmt.Errorf("kv: decode %q: %w", key, err)
	}
	return v, true, nil
}

type namespaced struct {
	Store
	prefix string
}

// Namespace scopes every key of s under prefix.
func Namespace(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return namespaced{Store: s, prefix: prefix}
}

func (n namespaced) Get(ctx context.Context, key string) (Item, error) {
	return n.Store.Get(ctx, n.prefix+key)
}

func (n namespaced) Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error) {
	return n.Store.Put(ctx, n.prefix+key, value, expectVersion)
}

func (n namespaced) Delete(ctx context.Context, key string) error {
	return n.Store.Delete(ctx, n.prefix+key)
}

// ClientPrefix is the namespace used for one client's progress.
func ClientPrefix(clientID string) string { return "client:" + clientID + ":" }

// Package objectstore uploads rendered share cards so they can be linked
// from outside the API.
package objectstore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("objectstore: not found")

type Store interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
	// URL returns a link a browser can open without credentials.
	URL(ctx context.Context, key string) (string, error)
}

// ShareCardKey is the object key for a history entry's card at a given score.
func ShareCardKey(clientPrefix, historyID string, score int) string {
	prefix := strings.Trim(strings.TrimSpace(clientPrefix), ":/")
	prefix = strings.ReplaceAll(prefix, ":", "/")
	if prefix != "" {
		prefix += "/"
	}
	return prefix + "share/" + strings.TrimSpace(historyID) + "-" + strconv.Itoa(score) + ".png"
}

// Memory keeps objects in process; URLs point at BaseURL.
type Memory struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]object
}

type object struct {
	content     []byte
	contentType string
}

func NewMemory(baseURL string) *Memory {
	return &Memory{BaseURL: strings.TrimRight(baseURL, "/"), objects: map[string]object{}}
}

func (m *Memory) Put(ctx context.Context, key string, content []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = object{content: append([]byte(nil), content...), contentType: contentType}
	return nil
}

func (m *Memory) Get(key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), obj.content...), obj.contentType, nil
}

func (m *Memory) URL(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return m.BaseURL + "/" + key, nil
}

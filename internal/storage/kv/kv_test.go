package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// storeContract exercises the CAS semantics every backend must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()
	key := "contract:" + t.Name()
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	_, err := s.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	v1, err := s.Put(ctx, key, []byte(`{"n":1}`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)

	_, err = s.Put(ctx, key, []byte(`{"n":9}`), 0)
	require.ErrorIs(t, err, ErrConflict, "create over existing key must conflict")

	v2, err := s.Put(ctx, key, []byte(`{"n":2}`), v1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2)

	_, err = s.Put(ctx, key, []byte(`{"n":3}`), v1)
	require.ErrorIs(t, err, ErrConflict, "stale version must conflict")

	it, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(it.Value))
	assert.Equal(t, int64(2), it.Version)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryContract(t *testing.T) {
	storeContract(t, NewMemory())
}

func TestGormSQLiteContract(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "kv.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	s := NewGorm(db)
	require.NoError(t, s.AutoMigrate(context.Background()))
	storeContract(t, s)
	require.NoError(t, s.Ping(context.Background()))
}

func TestRedisContract(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("set REDIS_ADDR to run redis integration tests")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	storeContract(t, NewRedis(rdb))
}

func TestNamespaceIsolatesKeys(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := Namespace(base, ClientPrefix("a"))
	b := Namespace(base, ClientPrefix("b"))

	_, err := a.Put(ctx, "streak", []byte(`1`), 0)
	require.NoError(t, err)
	_, err = b.Get(ctx, "streak")
	require.ErrorIs(t, err, ErrNotFound)

	it, err := base.Get(ctx, "client:a:streak")
	require.NoError(t, err)
	assert.Equal(t, "1", string(it.Value))
}

func TestUpdateJSONConcurrentIncrementsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	type counter struct{ N int }

	const workers = 4
	const perWorker = 25
	var wg sync.WaitGroup
	var failures sync.Map
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				// Retry exhaustion is possible under heavy contention; count only successes.
				for {
					_, err := UpdateJSON(ctx, s, "c", func(c *counter) error { c.N++; return nil })
					if err == nil {
						break
					}
					if !errors.Is(err, ErrConflict) {
						failures.Store(w, err)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
	failures.Range(func(k, v any) bool {
		t.Fatalf("worker %v: %v", k, v)
		return false
	})

	got, found, err := GetJSON[counter](ctx, s, "c")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, workers*perWorker, got.N)
}

type flakyStore struct {
	*Memory
	conflicts int
}

func (f *flakyStore) Put(ctx context.Context, key string, value []byte, expect int64) (int64, error) {
	if f.conflicts > 0 {
		f.conflicts--
		return 0, ErrConflict
	}
	return f.Memory.Put(ctx, key, value, expect)
}

func TestUpdateRetriesThenGivesUp(t *testing.T) {
	ctx := context.Background()
	s := &flakyStore{Memory: NewMemory(), conflicts: 2}
	calls := 0
	err := Update(ctx, s, "k", func(cur []byte) ([]byte, error) {
		calls++
		return []byte(`"x"`), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	s.conflicts = maxUpdateAttempts
	err = Update(ctx, s, "k", func(cur []byte) ([]byte, error) { return cur, nil })
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdatePropagatesCallbackError(t *testing.T) {
	boom := errors.New("boom")
	err := Update(context.Background(), NewMemory(), "k", func([]byte) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
}

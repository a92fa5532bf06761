package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisValueField   = "v"
	redisVersionField = "ver"
)

// Redis stores each key as a hash {v, ver} and uses WATCH/MULTI for CAS.
type Redis struct {
	rdb redis.UniversalClient
}

func NewRedis(rdb redis.UniversalClient) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Get(ctx context.Context, key string) (Item, error) {
	return readRedis(ctx, r.rdb, key)
}

type hashReader interface {
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
}

func readRedis(ctx context.Context, c hashReader, key string) (Item, error) {
	vals, err := c.HMGet(ctx, key, redisValueField, redisVersionField).Result()
	if err != nil {
		return Item{}, err
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return Item{}, ErrNotFound
	}
	value, _ := vals[0].(string)
	verStr, _ := vals[1].(string)
	ver, err := strconv.ParseInt(verStr, 10, 64)
	if err != nil {
		return Item{}, fmt.Errorf("kv: bad version for %q: %w", key, err)
	}
	return Item{Value: []byte(value), Version: ver}, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error) {
	next := expectVersion + 1
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readRedis(ctx, tx, key)
		switch {
		case errors.Is(err, ErrNotFound):
			if expectVersion != 0 {
				return ErrConflict
			}
		case err != nil:
			return err
		case cur.Version != expectVersion:
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, redisValueField, value, redisVersionField, next)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return 0, ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

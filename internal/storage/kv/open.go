package kv

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
)

type Options struct {
	// Backend is memory, redis, postgres or sqlite.
	Backend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresDSN string
	SQLitePath  string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Open builds the configured backend. The returned closer releases
// connections.
func Open(ctx context.Context, opts Options, log *logger.Logger) (Store, io.Closer, error) {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With("service", "KVStore")

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "memory":
		log.Info("kv backend ready", "backend", "memory")
		return NewMemory(), nopCloser{}, nil

	case "redis":
		if strings.TrimSpace(opts.RedisAddr) == "" {
			return nil, nil, fmt.Errorf("kv: missing REDIS_ADDR")
		}
		rdb := redis.NewClient(&redis.Options{
			Addr:        opts.RedisAddr,
			Password:    opts.RedisPassword,
			DB:          opts.RedisDB,
			DialTimeout: 5 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("kv backend ready", "backend", "redis", "addr", opts.RedisAddr)
		return NewRedis(rdb), rdb, nil

	case "postgres":
		if strings.TrimSpace(opts.PostgresDSN) == "" {
			return nil, nil, fmt.Errorf("kv: missing postgres dsn")
		}
		db, err := gorm.Open(postgres.Open(opts.PostgresDSN), gormConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		return finishGorm(ctx, db, log, "postgres")

	case "sqlite":
		path := strings.TrimSpace(opts.SQLitePath)
		if path == "" {
			path = "roastmycode.db"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		db, err := gorm.Open(sqlite.Open(path), gormConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
		}
		return finishGorm(ctx, db, log, "sqlite")

	default:
		return nil, nil, fmt.Errorf("kv: unsupported backend %q", opts.Backend)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

func finishGorm(ctx context.Context, db *gorm.DB, log *logger.Logger, backend string) (Store, io.Closer, error) {
	store := NewGorm(db)
	if err := store.AutoMigrate(ctx); err != nil {
		return nil, nil, fmt.Errorf("kv: migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	log.Info("kv backend ready", "backend", backend)
	return store, closerFunc(sqlDB.Close), nil
}

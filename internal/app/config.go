package app

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/yungbote/roastmycode-backend/internal/platform/envutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
	"github.com/yungbote/roastmycode-backend/internal/storage/objectstore"
)

type Config struct {
	Environment string
	Version     string
	HTTPAddr    string
	MetricsAddr string

	KV kv.Options

	SessionSecret    string
	SessionCacheSize int
	AllowedOrigins   []string

	AIMaxInflight int
	RateLimit     int
	RateWindow    time.Duration

	TrustedProxies []string
	MaxBodyBytes   int64

	// ShareStorageMode is none, memory or s3.
	ShareStorageMode string
	ShareS3          objectstore.S3Config

	Location *time.Location
}

func (c Config) Production() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	}
	return false
}

// LoadEnvFile loads .env when present. Variables already set win.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func LoadConfig(log *logger.Logger) Config {
	addr := envutil.String("HTTP_ADDR", "")
	if addr == "" {
		addr = ":" + envutil.String("PORT", "8080")
	}

	loc := time.UTC
	if tz := envutil.String("TIMEZONE", ""); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			log.Warn("unknown TIMEZONE, using UTC", "timezone", tz, "error", err)
		} else {
			loc = l
		}
	}

	return Config{
		Environment: envutil.String("APP_ENV", envutil.String("LOG_MODE", "development")),
		Version:     envutil.String("APP_VERSION", "dev"),
		HTTPAddr:    addr,
		MetricsAddr: envutil.String("METRICS_ADDR", ""),

		KV: kv.Options{
			Backend:       envutil.String("KV_BACKEND", "memory"),
			RedisAddr:     envutil.String("REDIS_ADDR", ""),
			RedisPassword: envutil.String("REDIS_PASSWORD", ""),
			RedisDB:       envutil.Int("REDIS_DB", 0),
			PostgresDSN:   postgresDSN(),
			SQLitePath:    envutil.String("SQLITE_PATH", "data/roastmycode.db"),
		},

		SessionSecret:    envutil.String("SESSION_SECRET", ""),
		SessionCacheSize: envutil.Int("SESSION_CACHE_SIZE", 4096),
		AllowedOrigins:   envutil.List("CORS_ALLOWED_ORIGINS", []string{"*"}),

		AIMaxInflight: envutil.Int("AI_MAX_INFLIGHT", 16),
		RateLimit:     envutil.Int("RATE_LIMIT_PER_WINDOW", 0),
		RateWindow:    envutil.Duration("RATE_LIMIT_WINDOW", time.Minute),

		TrustedProxies: envutil.List("TRUSTED_PROXIES", nil),
		MaxBodyBytes:   int64(envutil.Int("MAX_BODY_BYTES", 8<<20)),

		ShareStorageMode: strings.ToLower(envutil.String("SHARE_STORAGE_MODE", "none")),
		ShareS3: objectstore.S3Config{
			Endpoint:      envutil.String("SHARE_S3_ENDPOINT", ""),
			Region:        envutil.String("SHARE_S3_REGION", ""),
			AccessKey:     envutil.String("SHARE_S3_ACCESS_KEY", ""),
			SecretKey:     envutil.String("SHARE_S3_SECRET_KEY", ""),
			Bucket:        envutil.String("SHARE_S3_BUCKET", "roastmycode-share"),
			UseSSL:        envutil.Bool("SHARE_S3_USE_SSL", true),
			PublicBaseURL: envutil.String("SHARE_S3_PUBLIC_BASE_URL", ""),
			URLExpiry:     envutil.Duration("SHARE_S3_URL_EXPIRY", 24*time.Hour),
		},

		Location: loc,
	}
}

// postgresDSN prefers POSTGRES_DSN and otherwise assembles one from the
// POSTGRES_* parts.
func postgresDSN() string {
	if dsn := envutil.String("POSTGRES_DSN", ""); dsn != "" {
		return dsn
	}
	host := envutil.String("POSTGRES_HOST", "")
	if host == "" {
		return ""
	}
	parts := []string{
		"host=" + host,
		"port=" + envutil.String("POSTGRES_PORT", "5432"),
		"user=" + envutil.String("POSTGRES_USER", "postgres"),
		"password=" + envutil.String("POSTGRES_PASSWORD", ""),
		"dbname=" + envutil.String("POSTGRES_NAME", "roastmycode"),
		"sslmode=" + envutil.String("POSTGRES_SSLMODE", "disable"),
	}
	return strings.Join(parts, " ")
}

package kv

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is the kv_entry row. Values are JSON documents.
type Entry struct {
	Key       string         `gorm:"column:entry_key;primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"column:value;not null"`
	Version   int64          `gorm:"column:version;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null"`
}

func (Entry) TableName() string { return "kv_entry" }

type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// AutoMigrate creates kv_entry if needed.
func (g *Gorm) AutoMigrate(ctx context.Context) error {
	return g.db.WithContext(ctx).AutoMigrate(&Entry{})
}

func (g *Gorm) Get(ctx context.Context, key string) (Item, error) {
	var e Entry
	err := g.db.WithContext(ctx).Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, err
	}
	return Item{Value: []byte(e.Value), Version: e.Version}, nil
}

func (g *Gorm) Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error) {
	now := time.Now().UTC()
	next := expectVersion + 1
	if expectVersion == 0 {
		err := g.db.WithContext(ctx).Create(&Entry{
			Key:       key,
			Value:     datatypes.JSON(value),
			Version:   next,
			UpdatedAt: now,
		}).Error
		if isUniqueViolation(err) {
			return 0, ErrConflict
		}
		if err != nil {
			return 0, err
		}
		return next, nil
	}

	res := g.db.WithContext(ctx).
		Model(&Entry{}).
		Where("entry_key = ? AND version = ?", key, expectVersion).
		Updates(map[string]any{
			"value":      datatypes.JSON(value),
			"version":    next,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrConflict
	}
	return next, nil
}

func (g *Gorm) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

func (g *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code) == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}

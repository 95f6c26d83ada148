// Package storage 安全键值存储
//
// 会话层只依赖 Storage 接口；具体实现可选 gorm（sqlite/postgres）、redis 或内存，
// 并可通过 Sealed 装饰为加密存储。
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/models"

	"github.com/redis/go-redis/v9"
)

var (
	ErrEmptyKey        = errors.New("storage key is empty")
	ErrDriverInvalid   = errors.New("storage driver invalid")
	ErrRedisNotEnabled = errors.New("redis storage requires redis.enabled")
)

// Storage 键值存储
// Get 在键不存在时返回 ok=false 且 err=nil；所有读写失败都必须返回错误
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Open 按配置创建存储，返回的 closer 用于释放底层连接
func Open(cfg config.StorageConfig, redisClient *redis.Client, redisPrefix string) (Storage, func() error, error) {
	var (
		store  Storage
		closer = func() error { return nil }
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case constants.StorageDriverMemory:
		store = NewMemoryStorage()
	case constants.StorageDriverRedis:
		if redisClient == nil {
			return nil, nil, ErrRedisNotEnabled
		}
		store = NewRedisStorage(redisClient, redisPrefix)
	case "", constants.StorageDriverSQLite, constants.StorageDriverPostgres, "postgresql":
		db, err := models.OpenDB(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage db failed: %w", err)
		}
		if err := models.AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate storage db failed: %w", err)
		}
		store = NewGormStorage(db)
		closer = func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrDriverInvalid, cfg.Driver)
	}

	if strings.TrimSpace(cfg.Secret) != "" {
		sealed, err := NewSealed(store, cfg.Secret)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		store = sealed
	}
	return store, closer, nil
}

func checkKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", ErrEmptyKey
	}
	return trimmed, nil
}

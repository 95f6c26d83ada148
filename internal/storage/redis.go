package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStorage 基于 Redis 的存储
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage 创建 Redis 存储
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "fc"
	}
	return &RedisStorage{client: client, prefix: prefix}
}

// Get 读取
func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	key, err := checkKey(key)
	if err != nil {
		return "", false, err
	}
	val, err := s.client.Get(ctx, s.buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set 写入（不过期）
func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	key, err := checkKey(key)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.buildKey(key), value, 0).Err()
}

// Delete 删除
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	key, err := checkKey(key)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, s.buildKey(key)).Err()
}

func (s *RedisStorage) buildKey(key string) string {
	return fmt.Sprintf("%s:secure:%s", s.prefix, key)
}

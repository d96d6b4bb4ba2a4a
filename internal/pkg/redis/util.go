package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetValue 设置键值对，不过期
func SetValue(ctx context.Context, key string, value interface{}) error {
	return Rdb.Set(ctx, key, value, 0).Err()
}

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值，键不存在返回空串
func GetValue(ctx context.Context, key string) (string, error) {
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetIfAbsent 键不存在时写入，用作去抖标记与启动护栏
func SetIfAbsent(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return Rdb.SetNX(ctx, key, value, expiration).Result()
}

// DeleteKey 删除一个键
func DeleteKey(ctx context.Context, key string) error {
	return Rdb.Del(ctx, key).Err()
}

// DeleteKeys 管道批量删除，调用方视其为一次原子清理
func DeleteKeys(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := Rdb.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetRdbClient 获取redis客户端
func GetRdbClient() *redis.Client {
	return Rdb
}

// Store 面向业务层的键值存取封装，便于在测试里用内存实现替换
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return GetValue(ctx, key)
}

func (s *Store) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if expiration <= 0 {
		return SetValue(ctx, key, value)
	}
	return SetWithExpiration(ctx, key, value, expiration)
}

func (s *Store) SetNX(ctx context.Context, key, value string, expiration time.Duration) (bool, error) {
	return SetIfAbsent(ctx, key, value, expiration)
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	return DeleteKeys(ctx, keys...)
}

package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotInitialized 客户端未初始化时返回，调用方按缓存未命中处理
var ErrNotInitialized = errors.New("redis client is not initialized")

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值
func GetValue(ctx context.Context, key string) (string, error) {
	if Rdb == nil {
		return "", ErrNotInitialized
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// GetInt64 获取整型值，未命中视为错误
func GetInt64(ctx context.Context, key string) (int64, error) {
	if Rdb == nil {
		return 0, ErrNotInitialized
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

// IncrBy 增加计数
func IncrBy(ctx context.Context, key string, delta int64) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.IncrBy(ctx, key, delta).Err()
}

// DeleteKey 删除一个键
func DeleteKey(ctx context.Context, key string) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.Del(ctx, key).Err()
}

// SAdd 向集合添加成员
func SAdd(ctx context.Context, key string, members ...interface{}) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.SAdd(ctx, key, members...).Err()
}

// GetSet 获取集合
func GetSet(ctx context.Context, key string) ([]string, error) {
	if Rdb == nil {
		return nil, ErrNotInitialized
	}
	value, err := Rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Rename 重命名键
func Rename(ctx context.Context, oldKey string, newKey string) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.Rename(ctx, oldKey, newKey).Err()
}

// HSet 设置哈希字段
func HSet(ctx context.Context, key, field, value string) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.HSet(ctx, key, field, value).Err()
}

// HGetAll 获取整个哈希
func HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if Rdb == nil {
		return nil, ErrNotInitialized
	}
	return Rdb.HGetAll(ctx, key).Result()
}

// HDel 删除哈希字段
func HDel(ctx context.Context, key string, fields ...string) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.HDel(ctx, key, fields...).Err()
}

// Publish 发布消息到频道
func Publish(ctx context.Context, channel string, payload string) error {
	if Rdb == nil {
		return ErrNotInitialized
	}
	return Rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe 订阅频道
func Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return Rdb.Subscribe(ctx, channels...)
}

package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const definitionKeyPrefix = "lesson:definition:"

// DefinitionCache 课时测验文档缓存，Get 未命中时返回 nil, nil
type DefinitionCache interface {
	Get(ctx context.Context, lessonID uint) (*Definition, error)
	Set(ctx context.Context, def *Definition) error
	Delete(ctx context.Context, lessonID uint) error
}

type RedisDefinitionCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisDefinitionCache(rdb *redis.Client, ttl time.Duration) *RedisDefinitionCache {
	return &RedisDefinitionCache{Redis: rdb, TTL: ttl}
}

func definitionKey(lessonID uint) string {
	return definitionKeyPrefix + strconv.FormatUint(uint64(lessonID), 10)
}

func (c *RedisDefinitionCache) Get(ctx context.Context, lessonID uint) (*Definition, error) {
	val, err := c.Redis.Get(ctx, definitionKey(lessonID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var def Definition
	if err := json.Unmarshal(val, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *RedisDefinitionCache) Set(ctx context.Context, def *Definition) error {
	val, err := json.Marshal(def)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, definitionKey(def.LessonID), val, c.TTL).Err()
}

func (c *RedisDefinitionCache) Delete(ctx context.Context, lessonID uint) error {
	return c.Redis.Del(ctx, definitionKey(lessonID)).Err()
}

package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "headsup:pending"

// RedisStore хранит состояния в Redis, срок жизни задаётся через SET EX
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(key Key) string {
	return fmt.Sprintf("%s:%d:%d", redisKeyPrefix, key.ChatID, key.UserID)
}

func (s *RedisStore) Get(ctx context.Context, key Key) (*Pending, error) {
	raw, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get pending state: %w", err)
	}

	var p Pending
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal pending state: %w", err)
	}
	return &p, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, p *Pending) error {
	if p == nil || p.Flow == FlowNone {
		return s.Delete(ctx, key)
	}

	p.ExpiresAt = time.Now().Add(s.ttl)
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending state: %w", err)
	}

	if err := s.client.Set(ctx, redisKey(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set pending state: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete pending state: %w", err)
	}
	return nil
}

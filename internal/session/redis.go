package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlexZinkM/multi-wallet/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisPersister keeps the session under one Redis key
type RedisPersister struct {
	client redis.UniversalClient
	key    string
}

// NewRedisPersister creates a persister on an existing client
func NewRedisPersister(client redis.UniversalClient, key string) *RedisPersister {
	return &RedisPersister{client: client, key: key}
}

// NewRedisClient connects to a single Redis node
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

// Load reads the session; a missing key yields nil
func (p *RedisPersister) Load(ctx context.Context) (*model.AuthSession, error) {
	raw, err := p.client.Get(ctx, p.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s model.AuthSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Save stores the session without expiry; logout clears it
func (p *RedisPersister) Save(ctx context.Context, s model.AuthSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := p.client.Set(ctx, p.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

// Clear deletes the session key
func (p *RedisPersister) Clear(ctx context.Context) error {
	if err := p.client.Del(ctx, p.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"userportal/internal/cache"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps session state in Redis so it survives restarts and is
// shared between server instances.
type RedisStore struct {
	cache *cache.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(cache *cache.Client) *RedisStore {
	return &RedisStore{cache: cache}
}

func (s *RedisStore) Load(ctx context.Context, id string) (State, bool, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return State{}, false, err
	}
	if data == nil {
		return State{}, false, nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return state, true, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, state State, ttl time.Duration) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+id, payload, ttl)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+id)
}

package flagstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/flagkit/pkg/flag"
)

const (
	flagKeyPrefix = "flag:"
	flagsIndexKey = "flags"
	webhooksKey   = "webhooks"
)

// RedisStore implements flag.Store on top of Redis and carries the
// webhook endpoint registry alongside it.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// GetFlag returns the flag stored under key, or flag.ErrFlagNotFound.
func (s *RedisStore) GetFlag(ctx context.Context, key string) (flag.Flag, error) {
	data, err := s.client.Get(ctx, flagKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return flag.Flag{}, flag.ErrFlagNotFound
	}
	if err != nil {
		return flag.Flag{}, errors.Join(ErrUnavailable, err)
	}

	var f flag.Flag
	if err := json.Unmarshal(data, &f); err != nil {
		return flag.Flag{}, errors.Join(ErrMalformedFlag, fmt.Errorf("flag %q: %w", key, err))
	}
	return f, nil
}

// CreateFlag stores a new flag, or returns flag.ErrFlagExists when the
// key is already taken. SET NX makes the uniqueness check atomic, so
// concurrent creates of the same key cannot overwrite each other.
func (s *RedisStore) CreateFlag(ctx context.Context, f flag.Flag) error {
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Join(ErrMalformedFlag, err)
	}

	created, err := s.client.SetNX(ctx, flagKeyPrefix+f.Key, data, 0).Result()
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	if !created {
		return flag.ErrFlagExists
	}

	if err := s.client.SAdd(ctx, flagsIndexKey, f.Key).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// SaveFlag stores the flag as one JSON document and indexes its key.
// The write goes through a transactional pipeline so the document and
// the index never diverge.
func (s *RedisStore) SaveFlag(ctx context.Context, f flag.Flag) error {
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Join(ErrMalformedFlag, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, flagKeyPrefix+f.Key, data, 0)
	pipe.SAdd(ctx, flagsIndexKey, f.Key)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// DeleteFlag removes the flag and its index entry, or returns
// flag.ErrFlagNotFound when no such flag exists.
func (s *RedisStore) DeleteFlag(ctx context.Context, key string) error {
	deleted, err := s.client.Del(ctx, flagKeyPrefix+key).Result()
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	if deleted == 0 {
		return flag.ErrFlagNotFound
	}

	if err := s.client.SRem(ctx, flagsIndexKey, key).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// ListFlags returns all stored flags ordered by key. Index entries
// whose documents have disappeared are skipped.
func (s *RedisStore) ListFlags(ctx context.Context) ([]flag.Flag, error) {
	keys, err := s.client.SMembers(ctx, flagsIndexKey).Result()
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	if len(keys) == 0 {
		return []flag.Flag{}, nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = flagKeyPrefix + k
	}

	docs, err := s.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	flags := make([]flag.Flag, 0, len(docs))
	for i, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			continue
		}
		var f flag.Flag
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return nil, errors.Join(ErrMalformedFlag, fmt.Errorf("flag %q: %w", keys[i], err))
		}
		flags = append(flags, f)
	}

	sort.Slice(flags, func(i, j int) bool { return flags[i].Key < flags[j].Key })
	return flags, nil
}

// AddWebhook registers a webhook endpoint URL. Adding an already
// registered URL is a no-op.
func (s *RedisStore) AddWebhook(ctx context.Context, url string) error {
	if err := s.client.SAdd(ctx, webhooksKey, url).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// RemoveWebhook unregisters a webhook endpoint URL. Removing an
// unknown URL is a no-op.
func (s *RedisStore) RemoveWebhook(ctx context.Context, url string) error {
	if err := s.client.SRem(ctx, webhooksKey, url).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// ListWebhooks returns all registered endpoint URLs, sorted.
func (s *RedisStore) ListWebhooks(ctx context.Context) ([]string, error) {
	urls, err := s.client.SMembers(ctx, webhooksKey).Result()
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	sort.Strings(urls)
	return urls, nil
}

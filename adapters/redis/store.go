package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vitrine/adapters/session"
)

// Store implements session.IStore on top of Redis hashes. One hash per
// session, expired server-side so abandoned storefront sessions do not
// accumulate.
type Store struct {
	client  *redis.Client
	options StoreOptions
}

type StoreOptions struct {
	Prefix string
	TTL    time.Duration
}

type StoreOption func(*StoreOptions)

// WithStorePrefix sets the key prefix for every session hash.
func WithStorePrefix(prefix string) StoreOption {
	return func(o *StoreOptions) {
		o.Prefix = prefix
	}
}

// WithStoreTTL sets the expiry applied on every save. Zero disables it.
func WithStoreTTL(ttl time.Duration) StoreOption {
	return func(o *StoreOptions) {
		o.TTL = ttl
	}
}

// NewStore creates a Redis-backed session store.
func NewStore(client *redis.Client, opts ...StoreOption) session.IStore {
	options := &StoreOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return &Store{
		client:  client,
		options: *options,
	}
}

// Load reads the full session hash. Redis returns an empty map for a
// missing key, which callers treat as a fresh session.
func (s *Store) Load(ctx context.Context, name string) (map[string]string, error) {
	const op = "redis.Store.Load"
	key := s.options.Prefix + name

	result, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get hash: %w", op, err)
	}

	return result, nil
}

// saveScript atomically replaces the hash and refreshes its expiry.
// ARGV[1] is the TTL in seconds (0 keeps the key without expiry), the rest
// are alternating field/value pairs.
var saveScript = redis.NewScript(`
local key = KEYS[1]
local ttl = tonumber(ARGV[1])
redis.call('DEL', key)
if #ARGV > 1 then
    redis.call('HSET', key, unpack(ARGV, 2))
    if ttl > 0 then
        redis.call('EXPIRE', key, ttl)
    end
end
return 1
`)

// Save replaces the stored session data. Delete-then-set runs inside one
// Lua script so a concurrent Load never observes a half-written hash.
func (s *Store) Save(ctx context.Context, name string, data map[string]string) error {
	const op = "redis.Store.Save"
	key := s.options.Prefix + name
	args := make([]any, 0, len(data)*2+1)
	args = append(args, int64(s.options.TTL/time.Second))
	for k, v := range data {
		args = append(args, k, v)
	}
	err := saveScript.Run(ctx, s.client, []string{key}, args...).Err()
	if err != nil {
		return fmt.Errorf("%s: failed to execute save script: %w", op, err)
	}

	return nil
}

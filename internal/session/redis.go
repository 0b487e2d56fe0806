package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	identityKeyPrefix = "sess:"
	reverseKeyPrefix  = "sessuser:"
	flashKeyPrefix    = "flash:"
)

// RedisStore keeps session state in Redis. Identity lives under sess:<id>
// with a TTL; sessuser:<username> indexes the sessions of each user so that
// account deletion can sweep all of them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore with the given session lifetime.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) SetIdentity(ctx context.Context, sessionID, username string) error {
	previous, err := s.Identity(ctx, sessionID)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	if previous != "" && previous != username {
		// The session is re-authenticating as someone else; detach it from
		// the old identity's reverse index.
		pipe.SRem(ctx, reverseKeyPrefix+previous, sessionID)
	}
	pipe.Set(ctx, identityKeyPrefix+sessionID, username, s.ttl)
	pipe.SAdd(ctx, reverseKeyPrefix+username, sessionID)
	pipe.Expire(ctx, reverseKeyPrefix+username, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Identity(ctx context.Context, sessionID string) (string, error) {
	username, err := s.client.Get(ctx, identityKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

func (s *RedisStore) ClearIdentity(ctx context.Context, sessionID string) error {
	username, err := s.Identity(ctx, sessionID)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, identityKeyPrefix+sessionID)
	if username != "" {
		pipe.SRem(ctx, reverseKeyPrefix+username, sessionID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) ClearByIdentity(ctx context.Context, username string) error {
	sessionIDs, err := s.client.SMembers(ctx, reverseKeyPrefix+username).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, id := range sessionIDs {
		pipe.Del(ctx, identityKeyPrefix+id)
	}
	pipe.Del(ctx, reverseKeyPrefix+username)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) AddFlash(ctx context.Context, sessionID string, flash Flash) error {
	data, err := json.Marshal(flash)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, flashKeyPrefix+sessionID, data)
	pipe.Expire(ctx, flashKeyPrefix+sessionID, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) PopFlashes(ctx context.Context, sessionID string) ([]Flash, error) {
	key := flashKeyPrefix + sessionID

	pipe := s.client.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw, err := items.Result()
	if err != nil {
		return nil, err
	}

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var flash Flash
		if err := json.Unmarshal([]byte(item), &flash); err != nil {
			continue
		}
		flashes = append(flashes, flash)
	}
	return flashes, nil
}

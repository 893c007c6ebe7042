package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mailsign/signup-backend/internal/common/clock"
	"github.com/mailsign/signup-backend/internal/common/constants"
	"github.com/mailsign/signup-backend/internal/observability/metrics"
	userdomain "github.com/mailsign/signup-backend/internal/user/domain"
)

const redisKeyPrefix = "session:"

// RedisStore backs sessions with an external cache so multiple instances
// can share them. Entries are written without TTL to match the in-memory
// lifetime semantics.
type RedisStore struct {
	rdb   *redis.Client
	clock clock.Clock
}

func NewRedisStore(rdb *redis.Client, clk clock.Clock) *RedisStore {
	return &RedisStore{rdb: rdb, clock: clk}
}

func (s *RedisStore) Create(ctx context.Context, user userdomain.User) (Session, error) {
	id, err := newSessionID(constants.SessionIDSize)
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		ID:        id,
		User:      user,
		CreatedAt: s.clock.Now(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.rdb.Set(ctx, redisKey(id), payload, 0).Err(); err != nil {
		return Session{}, err
	}

	metrics.SessionsActive.Inc()

	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	data, err := s.rdb.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return sess, nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	deleted, err := s.rdb.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return err
	}

	if deleted > 0 {
		metrics.SessionsActive.Dec()
		metrics.SessionsDestroyed.Inc()
	}

	return nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

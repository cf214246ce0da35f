package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sistpec-api/internal/ports/auth"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "sistpec:session:"
	userKeyPrefix = "sistpec:user-sessions:"
)

func userKey(userID int64) string {
	return userKeyPrefix + strconv.FormatInt(userID, 10)
}

type RedisStore struct {
	rdb *redis.Client
}

// NewRedisClient abre la conexión y hace ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Create(ctx context.Context, s auth.Session, ttl time.Duration) error {
	s.ExpiresAt = time.Now().Add(ttl)
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	// el índice por usuario vive tanto como su sesión más reciente
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyPrefix+s.ID, b, ttl)
		p.SAdd(ctx, userKey(s.UserID), s.ID)
		p.Expire(ctx, userKey(s.UserID), ttl)
		return nil
	})
	return err
}

func (r *RedisStore) Get(ctx context.Context, id string) (auth.Session, error) {
	b, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return auth.Session{}, err
	}
	var s auth.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return auth.Session{}, fmt.Errorf("sessions: sesión %s ilegible: %w", id, err)
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, keyPrefix+id).Err()
}

func (r *RedisStore) DeleteUser(ctx context.Context, userID int64) error {
	ids, err := r.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, keyPrefix+id)
	}
	keys = append(keys, userKey(userID))
	return r.rdb.Del(ctx, keys...).Err()
}

var _ auth.SessionStore = (*RedisStore)(nil)

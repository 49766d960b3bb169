package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errx "github.com/wayfarer-labs/itinerary-planner/internal/core/error"
	"github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) sessionKey(sessionID string) string {
	return fmt.Sprintf("itinerary:session:%s", sessionID)
}

func (r *RedisSessionRepository) Save(ctx context.Context, rec *model.SessionRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("session record without id")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		logx.Error().Err(err).Str("session_id", rec.ID).Msg("failed to marshal session record")
		return fmt.Errorf("marshal session record: %w", err)
	}
	key := r.sessionKey(rec.ID)

	// ttl <= 0 keeps the key without expiry
	if err := r.rdb.Set(ctx, key, b, max(r.ttl, 0)).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to store session record in redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*model.SessionRecord, error) {
	key := r.sessionKey(sessionID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to load session record from redis")
		}
		return nil, errx.WrapRedis(err)
	}

	var rec model.SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to unmarshal session record")
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &rec, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	key := r.sessionKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session record from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)

package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ownership-platform/verification-service/internal/ports"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "verify:session:"

// RedisSessionCodeStore keeps live session codes as Redis hashes with a key
// TTL. Expiry removes the hash entirely, which is exactly the (nil, nil)
// Get contract: an expired code and a never-issued code look the same.
type RedisSessionCodeStore struct {
	client *redis.Client
}

func NewRedisSessionCodeStore(client *redis.Client) *RedisSessionCodeStore {
	return &RedisSessionCodeStore{client: client}
}

func (s *RedisSessionCodeStore) Put(ctx context.Context, code string, data ports.SessionData, ttl time.Duration) error {
	key := sessionKeyPrefix + code
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, map[string]any{
			"contract_address":   data.ContractAddress,
			"organizer_id":       data.OrganizerID,
			"event_name":         data.EventName,
			"location":           data.Location,
			"created_at":         data.CreatedAt.Unix(),
			"expires_at":         data.ExpiresAt.Unix(),
			"verification_count": data.VerificationCount,
		})
		p.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *RedisSessionCodeStore) Get(ctx context.Context, code string) (*ports.SessionData, error) {
	raw, err := s.client.HGetAll(ctx, sessionKeyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	data := hydrateSession(raw)
	return &data, nil
}

func (s *RedisSessionCodeStore) Delete(ctx context.Context, code string) error {
	return s.client.Del(ctx, sessionKeyPrefix+code).Err()
}

// IncrementCount is atomic per code via HINCRBY and leaves the key TTL alone.
func (s *RedisSessionCodeStore) IncrementCount(ctx context.Context, code string) (int64, error) {
	return s.client.HIncrBy(ctx, sessionKeyPrefix+code, "verification_count", 1).Result()
}

// ListByOrganizer scans the session keyspace and filters by organizer. The
// live-code population is small (one hash per open event), so a SCAN walk is
// acceptable here.
func (s *RedisSessionCodeStore) ListByOrganizer(ctx context.Context, organizerID string) (map[string]ports.SessionData, error) {
	result := make(map[string]ports.SessionData)

	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := s.client.HGetAll(ctx, key).Result()
		if err != nil || len(raw) == 0 {
			continue
		}
		data := hydrateSession(raw)
		if data.OrganizerID != organizerID {
			continue
		}
		result[key[len(sessionKeyPrefix):]] = data
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func hydrateSession(raw map[string]string) ports.SessionData {
	data := ports.SessionData{
		ContractAddress: raw["contract_address"],
		OrganizerID:     raw["organizer_id"],
		EventName:       raw["event_name"],
		Location:        raw["location"],
	}
	if unix, err := strconv.ParseInt(raw["created_at"], 10, 64); err == nil {
		data.CreatedAt = time.Unix(unix, 0).UTC()
	}
	if unix, err := strconv.ParseInt(raw["expires_at"], 10, 64); err == nil {
		data.ExpiresAt = time.Unix(unix, 0).UTC()
	}
	if count, err := strconv.ParseInt(raw["verification_count"], 10, 64); err == nil {
		data.VerificationCount = count
	}
	return data
}

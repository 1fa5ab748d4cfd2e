// Package pool holds the ephemeral candidate pool: one travel intent per
// user, each with a TTL enforced by the store itself. The discovery pool is
// simply "all non-expired intents".
package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

const (
	intentKeyPrefix = "intent:user:" // Key per live intent: intent:user:{user_id}
	scanBatchSize   = 100
)

// Store is the candidate pool contract. Implementations enforce TTL expiry
// themselves; callers must tolerate Get/Scan silently omitting expired
// entries.
type Store interface {
	// Publish overwrites any existing intent for the user and resets the
	// expiry clock to ttl. There is no access-based renewal.
	Publish(ctx context.Context, intent *domain.TravelIntent, ttl time.Duration) error
	// Get returns the user's live intent or domain.ErrIntentNotFound.
	Get(ctx context.Context, userID string) (*domain.TravelIntent, error)
	// Scan walks all non-expired intents. The walk is restartable and makes
	// no atomicity guarantee: a record expiring mid-scan may or may not be
	// seen. Malformed records are skipped, never abort the scan.
	Scan(ctx context.Context, fn func(*domain.TravelIntent) error) error
	Close() error
}

// RedisStore implements Store on a Redis client with per-key TTLs.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Publish(ctx context.Context, intent *domain.TravelIntent, ttl time.Duration) error {
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}

	if err := s.client.Set(ctx, intentKey(intent.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("publish intent: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*domain.TravelIntent, error) {
	data, err := s.client.Get(ctx, intentKey(userID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get intent: %w", err)
	}

	var intent domain.TravelIntent
	if err := json.Unmarshal([]byte(data), &intent); err != nil {
		return nil, fmt.Errorf("unmarshal intent: %w", err)
	}

	return &intent, nil
}

func (s *RedisStore) Scan(ctx context.Context, fn func(*domain.TravelIntent) error) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, intentKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("scan intents: %w", err)
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err == redis.Nil {
				// Expired between SCAN and GET.
				continue
			}
			if err != nil {
				return fmt.Errorf("get intent %s: %w", key, err)
			}

			var intent domain.TravelIntent
			if err := json.Unmarshal([]byte(data), &intent); err != nil {
				log.Printf("[warn] operation=pool_scan skipping malformed intent key=%s error=%v", key, err)
				continue
			}

			if err := fn(&intent); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// ListActive collects the full pool into a slice via Scan.
func ListActive(ctx context.Context, s Store) ([]*domain.TravelIntent, error) {
	var out []*domain.TravelIntent
	err := s.Scan(ctx, func(it *domain.TravelIntent) error {
		out = append(out, it)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func intentKey(userID string) string {
	return intentKeyPrefix + userID
}

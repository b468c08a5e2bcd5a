package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const sessionKeyPrefix = "booking_session:"

// DefaultSessionTTL bounds how long an abandoned wizard run is kept.
const DefaultSessionTTL = 30 * time.Minute

// RedisStore persists sessions as JSON values with a TTL, so abandoned
// wizard runs expire on their own. The Version compare-and-set rides on
// redis WATCH/MULTI optimistic locking.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed session store. A non-positive ttl
// falls back to DefaultSessionTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{
		redis:  client,
		tracer: otel.Tracer("booking.internal.wizard.redis_store"),
		ttl:    ttl,
	}
}

// Create persists a new session with the store TTL.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	ctx, span := r.tracer.Start(ctx, "wizard.session.create")
	defer span.End()

	s.Version = 1
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("wizard: marshal session: %w", err)
	}
	if err := r.redis.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: store session: %w", err)
	}
	return nil
}

// Get loads a session, mapping expiry to ErrSessionNotFound.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	ctx, span := r.tracer.Start(ctx, "wizard.session.get")
	defer span.End()

	data, err := r.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("wizard: load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("wizard: parse session: %w", err)
	}
	return &s, nil
}

// Save writes the session back under WATCH: if the stored version moved
// past the caller's copy the write is abandoned with ErrVersionConflict.
// Each save refreshes the TTL, so an active wizard run never expires
// mid-flow.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ctx, span := r.tracer.Start(ctx, "wizard.session.save")
	defer span.End()

	key := sessionKey(s.ID)
	prev := s.Version
	err := r.redis.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrSessionNotFound
			}
			return err
		}
		var stored Session
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("wizard: parse stored session: %w", err)
		}
		if stored.Version != s.Version {
			return ErrVersionConflict
		}

		s.Version++
		updated, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("wizard: marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, r.ttl)
			return nil
		})
		return err
	}, key)

	if err == nil {
		return nil
	}
	s.Version = prev
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrVersionConflict):
		return err
	case errors.Is(err, redis.TxFailedErr):
		// Another writer touched the key between GET and EXEC.
		return ErrVersionConflict
	default:
		span.RecordError(err)
		return fmt.Errorf("wizard: save session: %w", err)
	}
}

// Delete removes a session; missing keys are fine.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "wizard.session.delete")
	defer span.End()

	if err := r.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// internal/domain/checkout/redis_store.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore persists checkout sessions and idempotency claims
type StateStore interface {
	Load(ctx context.Context, scope string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, scope string) error

	// ClaimIdempotencyKey reserves a key for an in-flight submit. It
	// returns the previously stored order number when the key was
	// already completed, or claimed=false with an empty value when
	// another submit holds the reservation.
	ClaimIdempotencyKey(ctx context.Context, key string) (orderNumber string, claimed bool, err error)
	CompleteIdempotencyKey(ctx context.Context, key, orderNumber string) error
	ReleaseIdempotencyKey(ctx context.Context, key string) error
}

const idempotencyReserved = "__reserved__"

// RedisStateStore keeps checkout state in Redis under checkout:{scope}
// and idempotency claims under checkout:idem:{key}
type RedisStateStore struct {
	client     *redis.Client
	sessionTTL time.Duration
	idemTTL    time.Duration
}

// NewRedisStateStore creates a Redis-backed checkout state store
func NewRedisStateStore(client *redis.Client, sessionTTL, idemTTL time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client:     client,
		sessionTTL: sessionTTL,
		idemTTL:    idemTTL,
	}
}

func sessionKey(scope string) string {
	return "checkout:" + scope
}

func idemKey(key string) string {
	return "checkout:idem:" + key
}

// Load retrieves the checkout session for a scope, defaulting to a
// fresh session at the cart step
func (r *RedisStateStore) Load(ctx context.Context, scope string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(scope)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewSession(scope), nil
		}
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	sess.Scope = scope
	return &sess, nil
}

// Save persists the checkout session
func (r *RedisStateStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sess.Scope), data, r.sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store checkout session: %w", err)
	}
	return nil
}

// Delete drops the checkout session for a scope
func (r *RedisStateStore) Delete(ctx context.Context, scope string) error {
	if err := r.client.Del(ctx, sessionKey(scope)).Err(); err != nil {
		return fmt.Errorf("failed to delete checkout session: %w", err)
	}
	return nil
}

// ClaimIdempotencyKey reserves the key with SETNX. A pre-existing value
// is either a completed order number or another submit's reservation.
func (r *RedisStateStore) ClaimIdempotencyKey(ctx context.Context, key string) (string, bool, error) {
	ok, err := r.client.SetNX(ctx, idemKey(key), idempotencyReserved, r.idemTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	existing, err := r.client.Get(ctx, idemKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Reservation expired between SETNX and GET; treat as claimed
			return "", true, nil
		}
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if existing == idempotencyReserved {
		return "", false, nil
	}
	return existing, false, nil
}

// CompleteIdempotencyKey records the created order number under the key
func (r *RedisStateStore) CompleteIdempotencyKey(ctx context.Context, key, orderNumber string) error {
	if err := r.client.Set(ctx, idemKey(key), orderNumber, r.idemTTL).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// ReleaseIdempotencyKey drops a reservation after a failed submit so
// the client may retry
func (r *RedisStateStore) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, idemKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

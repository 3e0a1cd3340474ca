// Package auth implements the admin access gate.
//
// The gate is NOT a security boundary: the unlock code is a fixed literal
// shipped with the product and known to anyone holding a copy. It only keeps
// casual visitors off the dashboard for an hour at a time.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	AdminCode   = "br.admin"
	ExpiryKey   = "admin_session_expiry"
	SessionTTL  = time.Hour
	expiryStamp = time.RFC3339
)

var ErrInvalidCode = errors.New("auth: invalid code")

// KeyValue persists the gate expiry. A missing key reports ok=false.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type RedisKeyValue struct {
	client *redis.Client
}

func NewRedisKeyValue(client *redis.Client) *RedisKeyValue {
	return &RedisKeyValue{client: client}
}

func (r *RedisKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisKeyValue) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKeyValue) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Status is the gate state as seen at one instant.
type Status struct {
	Unlocked  bool       `json:"unlocked"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type Gate struct {
	kv  KeyValue
	log *zap.SugaredLogger
	now func() time.Time
}

func NewGate(kv KeyValue, log *zap.SugaredLogger) *Gate {
	return &Gate{kv: kv, log: log, now: time.Now}
}

// Attempt unlocks the gate for SessionTTL when code matches AdminCode.
func (g *Gate) Attempt(ctx context.Context, code string) (Status, error) {
	if code != AdminCode {
		g.log.Infow("gate unlock rejected")
		return Status{}, ErrInvalidCode
	}

	expiry := g.now().Add(SessionTTL).Truncate(time.Second)
	if err := g.kv.Set(ctx, ExpiryKey, expiry.Format(expiryStamp), SessionTTL); err != nil {
		return Status{}, err
	}
	g.log.Infow("gate unlocked", "expires_at", expiry)
	return Status{Unlocked: true, ExpiresAt: &expiry}, nil
}

// Load reads the persisted expiry; the gate is open only while it lies in
// the future.
func (g *Gate) Load(ctx context.Context) (Status, error) {
	raw, ok, err := g.kv.Get(ctx, ExpiryKey)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{}, nil
	}
	expiry, err := time.Parse(expiryStamp, raw)
	if err != nil {
		g.log.Warnw("gate expiry unreadable", "value", raw, "error", err)
		return Status{}, nil
	}
	if !g.now().Before(expiry) {
		return Status{}, nil
	}
	return Status{Unlocked: true, ExpiresAt: &expiry}, nil
}

func (g *Gate) Logout(ctx context.Context) (Status, error) {
	if err := g.kv.Del(ctx, ExpiryKey); err != nil {
		return Status{}, err
	}
	g.log.Infow("gate locked")
	return Status{}, nil
}

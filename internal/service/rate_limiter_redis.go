package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisAdmitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`

// RedisRateLimiter implementa la misma ventana fija sobre Redis, para que los
// contadores se compartan entre réplicas del servicio. Ante un error de Redis
// admite la petición: preferimos degradar el límite antes que tirar el chat.
type RedisRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int, prefix string) *RedisRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max < 1 {
		max = 1
	}
	if prefix == "" {
		prefix = "chat:rl:"
	}
	return &RedisRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: prefix,
	}
}

func (l *RedisRateLimiter) Admit(ctx context.Context, key string) RateLimitResult {
	if l == nil || l.client == nil {
		return RateLimitResult{Allowed: true}
	}
	allowAll := RateLimitResult{
		Allowed:   true,
		Limit:     l.max,
		Remaining: l.max,
		Reset:     time.Now().Add(l.window),
	}

	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		normalizedKey = "unknown"
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	values, err := l.client.Eval(ctx, redisAdmitScript, []string{l.prefix + normalizedKey}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(values) != 2 {
		return allowAll
	}

	count := int(values[0])
	ttl := time.Duration(values[1]) * time.Millisecond
	if ttl < 0 {
		ttl = l.window
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		Reset:     time.Now().Add(ttl),
	}
}

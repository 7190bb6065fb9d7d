package inflight

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 30 * time.Second

// releaseScript deletes the key only if it still holds our token, so an
// expired-and-reacquired guard is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard marks a session as loading with a SET NX key, shared by every
// server instance pointed at the same Redis.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisGuard constructs a RedisGuard. A non-positive ttl falls back to 30s.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisGuard{client: client, ttl: ttl, tokens: make(map[string]string)}
}

// key returns the Redis key for the given session.
func key(session string) string {
	return "search:inflight:" + strings.TrimSpace(session)
}

// Acquire claims session. It returns false when another request holds it.
func (g *RedisGuard) Acquire(ctx context.Context, session string) (bool, error) {
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key(session), token, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring in-flight guard for session %s: %w", session, err)
	}
	if !ok {
		return false, nil
	}

	g.mu.Lock()
	g.tokens[session] = token
	g.mu.Unlock()
	return true, nil
}

// Release frees session if this guard still holds it.
func (g *RedisGuard) Release(ctx context.Context, session string) error {
	g.mu.Lock()
	token, ok := g.tokens[session]
	delete(g.tokens, session)
	g.mu.Unlock()

	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, g.client, []string{key(session)}, token).Err(); err != nil {
		return fmt.Errorf("releasing in-flight guard for session %s: %w", session, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (g *RedisGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

// MemoryGuard is the single-process guard used when no Redis is configured.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryGuard constructs an empty MemoryGuard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]struct{})}
}

// Acquire claims session. It returns false when the session is already held.
func (g *MemoryGuard) Acquire(_ context.Context, session string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[session]; ok {
		return false, nil
	}
	g.held[session] = struct{}{}
	return true, nil
}

// Release frees session.
func (g *MemoryGuard) Release(_ context.Context, session string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, session)
	return nil
}

// Ping always succeeds.
func (g *MemoryGuard) Ping(_ context.Context) error { return nil }

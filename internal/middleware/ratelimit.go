package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// fixedWindow counts requests per client host in Redis. The first hit of a
// window sets the expiry, so the counter resets Window after it.
type fixedWindow struct {
	client *redis.Client
	config RateLimitConfig
}

type windowState struct {
	count int64
	reset time.Duration
}

func (f fixedWindow) key(r *http.Request) string {
	return f.config.KeyPrefix + ":" + clientIP(r.RemoteAddr)
}

func (f fixedWindow) hit(ctx context.Context, key string) (windowState, error) {
	count, err := f.client.Incr(ctx, key).Result()
	if err != nil {
		return windowState{}, err
	}
	if count == 1 {
		if err := f.client.Expire(ctx, key, f.config.Window).Err(); err != nil {
			return windowState{}, err
		}
		return windowState{count: count, reset: f.config.Window}, nil
	}

	reset := f.config.Window
	if ttl, err := f.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		reset = ttl
	}
	return windowState{count: count, reset: reset}, nil
}

func (f fixedWindow) writeHeaders(w http.ResponseWriter, state windowState) {
	remaining := int64(f.config.RequestsPerWindow) - state.count
	if remaining < 0 {
		remaining = 0
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(f.config.RequestsPerWindow))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(state.reset).Unix(), 10))
}

// RateLimitMiddleware rejects clients that exhaust their window with 429.
// Redis failures let the request through.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := fixedWindow{client: redisClient, config: config}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.key(r)

			state, err := limiter.hit(r.Context(), key)
			if err != nil {
				logger.Error("Rate limiter unavailable", zap.Error(err), zap.String("key", key))
				next.ServeHTTP(w, r)
				return
			}

			limiter.writeHeaders(w, state)
			if state.count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.Int64("count", state.count),
					zap.Int("limit", config.RequestsPerWindow),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(state.reset.Round(time.Second).Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. chi's RealIP may already have
// replaced it with a bare address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

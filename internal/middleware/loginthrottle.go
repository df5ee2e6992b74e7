package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/fairway/scorecard-server/internal/audit"
	"github.com/fairway/scorecard-server/internal/config"
	"github.com/fairway/scorecard-server/internal/redis"
)

// loginThrottleScript implements a sliding window over a sorted set, keyed by
// client IP.
var loginThrottleScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local windowStart = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local resetAt = 0
    if #oldest >= 2 then
        resetAt = tonumber(oldest[2]) + window
    else
        resetAt = now + window
    end
    return {0, resetAt}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)

return {1, now + window}
`)

// ThrottleChecker decides whether an attempt from ip is allowed right now.
type ThrottleChecker interface {
	Allow(ctx context.Context, ip string) (allowed bool, retryAfter time.Duration)
}

type redisThrottleChecker struct {
	client *goredis.Client
	limit  int
	window time.Duration
}

// NewRedisThrottleChecker limits attempts per IP per window using redis, so
// the throttle holds across instances. Redis being down fails open: the
// per-account lockout still applies.
func NewRedisThrottleChecker(client *goredis.Client, limit int) ThrottleChecker {
	return &redisThrottleChecker{
		client: client,
		limit:  limit,
		window: config.LoginThrottleWindow,
	}
}

func (c *redisThrottleChecker) Allow(ctx context.Context, ip string) (bool, time.Duration) {
	now := time.Now().Unix()
	key := redis.LoginThrottleKey(ip)

	result, err := loginThrottleScript.Run(
		ctx, c.client, []string{key},
		now, int64(c.window.Seconds()), c.limit,
	).Int64Slice()
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("login throttle check failed, allowing attempt")
		return true, 0
	}

	if len(result) != 2 {
		log.Warn().Str("ip", ip).Msg("unexpected login throttle result, allowing attempt")
		return true, 0
	}

	if result[0] == 1 {
		return true, 0
	}

	retryAfter := time.Duration(result[1]-now) * time.Second
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return false, retryAfter
}

// LoginThrottle sits in front of the login endpoint only. It throttles by IP
// before any account is even looked up; per-account lockout handles targeted
// guessing.
type LoginThrottle struct {
	checker ThrottleChecker
}

func NewLoginThrottle(checker ThrottleChecker) *LoginThrottle {
	return &LoginThrottle{checker: checker}
}

func (l *LoginThrottle) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		allowed, retryAfter := l.checker.Allow(r.Context(), ip)
		if !allowed {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventRateLimitExceed})
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "로그인 시도가 너무 많습니다. 잠시 후 다시 시도해주세요.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	return r.RemoteAddr
}

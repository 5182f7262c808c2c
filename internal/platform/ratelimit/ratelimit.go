// Package ratelimit caps requests per client IP with a Redis counter.
package ratelimit

import (
	"context"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"symptom-checker/internal/platform/respond"
)

const (
	keyPrefix = "rate_limit:"
	window    = time.Second
)

// incrWindow counts a hit and starts the window on the first one. A key left
// without a TTL gets one on its next hit, so a client cannot stay blocked.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 or redis.call("TTL", KEYS[1]) == -1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// counter increments the hit count for key in the current window.
type counter func(ctx context.Context, key string) (int64, error)

func redisCounter(rdb *redis.Client) counter {
	seconds := int(window / time.Second)
	return func(ctx context.Context, key string) (int64, error) {
		return incrWindow.Run(ctx, rdb, []string{key}, seconds).Int64()
	}
}

// Middleware allows at most qps requests per second per client IP. A nil
// client or non-positive qps disables limiting. Redis errors let the request
// through.
func Middleware(rdb *redis.Client, qps int) func(http.Handler) http.Handler {
	if rdb == nil || qps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return limit(redisCounter(rdb), qps)
}

func limit(count counter, qps int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n, err := count(r.Context(), keyPrefix+clientIP(r))
			if err != nil {
				log.Printf("ratelimit: redis unavailable, allowing request: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(qps))
			if n > int64(qps) {
				w.Header().Set("Retry-After", "1")
				respond.Error(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(qps)-n, 10))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects middleware.RealIP to have rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

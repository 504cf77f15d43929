package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"hrms/internal/transport/http/api"
)

type rateBucket struct {
	tokens float64
	last   time.Time
}

// RateLimit applies a token bucket per authenticated user, falling back to
// the remote IP for anonymous requests. Buckets idle for over ten minutes
// are dropped on the next sweep.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		buckets = map[string]*rateBucket{}
		swept   = time.Now()
	)
	limit := float64(perMinute)
	refill := limit / 60.0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := clientKey(r)
			now := time.Now()

			mu.Lock()
			if now.Sub(swept) > 10*time.Minute {
				for k, b := range buckets {
					if now.Sub(b.last) > 10*time.Minute {
						delete(buckets, k)
					}
				}
				swept = now
			}
			bucket, ok := buckets[key]
			if !ok {
				bucket = &rateBucket{tokens: limit, last: now}
				buckets[key] = bucket
			}
			bucket.tokens += now.Sub(bucket.last).Seconds() * refill
			if bucket.tokens > limit {
				bucket.tokens = limit
			}
			bucket.last = now
			allowed := bucket.tokens >= 1
			if allowed {
				bucket.tokens--
			}
			remaining := int(bucket.tokens)
			mu.Unlock()

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok {
		return "user:" + user.EmpID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

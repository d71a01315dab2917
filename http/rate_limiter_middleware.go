package http

import (
	"net"
	"net/http"
	"strconv"
	"time"
)

// RateLimitMiddleware rejects clients that exhausted their bucket. The key
// is the remote IP, which chi's RealIP middleware has already resolved.
func RateLimitMiddleware(limiter *RateLimiter, per time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.Allow(ip) {
				w.Header().Set("Retry-After", strconv.Itoa(int(per.Seconds())))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"audio-downloader/internal/metrics"
)

// RateLimitConfig holds configuration for the rate limiting middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate across all clients.
	RequestsPerSecond float64

	// Burst is the number of requests allowed above the sustained rate.
	Burst int

	// SkipPaths are paths exempt from rate limiting.
	SkipPaths []string
}

// DefaultRateLimitConfig returns the default rate limit configuration.
// Health and metrics endpoints are exempt so probes never get throttled.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		SkipPaths:         []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
	}
}

// RateLimit returns a middleware enforcing a global token-bucket limit.
// Rejected requests get 429 and count toward the rejection metric.
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range config.SkipPaths {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}

			if !limiter.Allow() {
				metrics.RateLimitRejections.Inc()
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

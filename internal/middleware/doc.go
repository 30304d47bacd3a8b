// Package middleware provides HTTP middleware for the audio downloader
// service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics
//   - Global rate limiting with 429 rejection
//   - CORS headers with preflight handling
package middleware

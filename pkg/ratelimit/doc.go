// Package ratelimit provides per-client rate limiting for the downloader
// API.
//
// The limiter is keyed by client identity (the remote address as seen by
// the HTTP layer) and implements a fixed window: a client's window starts
// with its first request and resets one full period later, regardless of
// traffic in between. This is intentionally not a sliding window.
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow(key) bool - Check if a request from the client is allowed
//   - Reset() - Reset the limiter state for all clients
//
// Usage:
//
//	// 100 requests per hour per client
//	limiter := ratelimit.NewFixedWindow(100, time.Hour)
//
//	if limiter.Allow(clientIP) {
//	    // Proceed with request
//	} else {
//	    // Reject with 429
//	}
package ratelimit

package retry

import "time"

// maxDelay caps the backoff so a task stuck at high attempt counts is not
// postponed for minutes.
const maxDelay = 30 * time.Second

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt (base * 2^attempt), clamped to 30s.
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := base * (1 << attempt)
	if d > maxDelay || d <= 0 {
		return maxDelay
	}
	return d
}

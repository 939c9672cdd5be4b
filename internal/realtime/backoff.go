package realtime

import (
	"math"
	"time"
)

// ReconnectPolicy controls the delay between connection attempts. Unlike a
// request retry there is no attempt cap: the channel reconnects until it
// is torn down.
type ReconnectPolicy struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultReconnectPolicy returns the standard policy: 1s initial delay,
// 2x multiplier, 5s cap.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Second,
	}
}

// DelayFor computes the backoff before attempt n (n starts at 1).
func (p ReconnectPolicy) DelayFor(attempt int) time.Duration {
	if attempt <= 1 {
		return p.InitialDelay
	}
	delay := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

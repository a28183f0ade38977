package ratelimiter

import (
	"context"
	"sync"
)

// PooledRateLimiter keeps one limiter per upstream node so failover nodes do not
// share a budget.
type PooledRateLimiter struct {
	limiters map[string]*RateLimiter
	mutex    sync.RWMutex
	rps      int
	burst    int
}

func NewPooledRateLimiter(rps int, burst int) *PooledRateLimiter {
	return &PooledRateLimiter{
		limiters: make(map[string]*RateLimiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait waits for permission to make a request to the specified node
func (p *PooledRateLimiter) Wait(ctx context.Context, node string) error {
	return p.getLimiter(node).Wait(ctx)
}

func (p *PooledRateLimiter) getLimiter(node string) *RateLimiter {
	p.mutex.RLock()
	limiter, exists := p.limiters[node]
	p.mutex.RUnlock()

	if exists {
		return limiter
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	// Double-check in case another goroutine created it
	if limiter, exists := p.limiters[node]; exists {
		return limiter
	}

	limiter = NewRateLimiter(p.rps, p.burst)
	p.limiters[node] = limiter
	return limiter
}

// GetStats returns statistics for all nodes
func (p *PooledRateLimiter) GetStats() map[string]map[string]any {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	stats := make(map[string]map[string]any, len(p.limiters))
	for node, limiter := range p.limiters {
		available, capacity, interval := limiter.GetStats()
		stats[node] = map[string]any{
			"available_tokens": available,
			"capacity":         capacity,
			"interval_ms":      interval.Milliseconds(),
		}
	}
	return stats
}

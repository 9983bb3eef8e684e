package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ipClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP. Buckets idle longer
// than the sweep window are dropped.
type ipRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*ipClient
	rate    rate.Limit
	burst   int
	now     func() time.Time
	logger  *slog.Logger
}

func newIPRateLimiter(r rate.Limit, burst int, logger *slog.Logger) *ipRateLimiter {
	if r <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		clients: make(map[string]*ipClient),
		rate:    r,
		burst:   burst,
		now:     time.Now,
		logger:  logger,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	c, ok := i.clients[ip]
	if !ok {
		c = &ipClient{limiter: rate.NewLimiter(i.rate, i.burst)}
		i.clients[ip] = c
	}
	c.lastSeen = i.now()
	return c.limiter
}

// sweep drops buckets not used within idle and returns how many were removed.
func (i *ipRateLimiter) sweep(idle time.Duration) int {
	cutoff := i.now().Add(-idle)

	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for ip, c := range i.clients {
		if c.lastSeen.Before(cutoff) {
			delete(i.clients, ip)
			removed++
		}
	}
	return removed
}

// run sweeps on interval until ctx is done.
func (i *ipRateLimiter) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := i.sweep(interval); removed > 0 {
				i.logger.Debug("dropped idle rate limiters", "removed", removed)
			}
		}
	}
}

// middleware rejects clients that exceed their bucket with 429.
func (i *ipRateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.getLimiter(ip).Allow() {
			i.logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

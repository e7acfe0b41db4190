package rate_limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	limit rate.Limit = 1 // requests per second
	burst            = 3
)

// Configure sets the rate applied to visitors seen from now on.
func Configure(r rate.Limit, b int) {
	mu.Lock()
	defer mu.Unlock()
	if r > 0 {
		limit = r
	}
	if b > 0 {
		burst = b
	}
}

func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// CleanupStaleVisitors forgets visitors idle for longer than maxIdle and
// returns how many were removed.
func CleanupStaleVisitors(maxIdle time.Duration) int {
	mu.Lock()
	defer mu.Unlock()

	removed := 0
	for ip, v := range visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(visitors, ip)
			removed++
		}
	}
	return removed
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}

func Visitors() int {
	mu.Lock()
	defer mu.Unlock()
	return len(visitors)
}

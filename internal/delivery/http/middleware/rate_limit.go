package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gymbook-promotions/pkg/utils"

	"golang.org/x/time/rate"
)

// RateLimitConfig describes the per-client token bucket.
type RateLimitConfig struct {
	RPS   float64
	Burst int
	// Sweep is how often idle clients are evicted; Idle is how long a client may go unseen.
	Sweep time.Duration
	Idle  time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP until Shutdown.
type RateLimiter struct {
	cfg RateLimitConfig

	mu       sync.Mutex
	visitors map[string]*visitor

	stop     context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

func NewRateLimiter(ctx context.Context, cfg RateLimitConfig) *RateLimiter {
	ctx, stop := context.WithCancel(ctx)
	rl := &RateLimiter{
		cfg:      cfg,
		visitors: make(map[string]*visitor),
		stop:     stop,
		done:     make(chan struct{}),
	}
	go rl.sweep(ctx)
	return rl
}

// Middleware rejects requests over the client's budget with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ok, wait := rl.allow(getClientIP(r), time.Now()); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				utils.WriteError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allow takes a token for key at now. When none is left it reports how long until one is.
func (rl *RateLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, max(delay, time.Second)
	}
	return true, 0
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	defer close(rl.done)
	ticker := time.NewTicker(rl.cfg.Sweep)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.evictIdle(now)
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.cfg.Idle {
			delete(rl.visitors, key)
		}
	}
}

// Len reports how many clients are currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Shutdown stops the sweeper and waits for it to exit. It is safe to call more than once.
func (rl *RateLimiter) Shutdown() {
	rl.stopOnce.Do(rl.stop)
	<-rl.done
}

package infra

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket limiter guarding exchange REST calls.
// Thread-safe.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewRateLimiter creates a limiter with the given burst size and refill
// rate in requests per second.
func NewRateLimiter(burst int, perSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		refillRate: perSecond,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available.
func (r *RateLimiter) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	for r.tokens < 1 {
		waitTime := time.Duration(float64(time.Second) / r.refillRate)
		r.mu.Unlock()
		time.Sleep(waitTime)
		r.mu.Lock()
		r.refill()
	}
	r.tokens--
}

// TryAcquire takes a token without blocking, reporting success.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

// refill adds tokens for elapsed time. Caller must hold the mutex.
func (r *RateLimiter) refill() {
	now := time.Now()
	r.tokens += now.Sub(r.lastRefill).Seconds() * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefill = now
}

// Pre-configured limiters for the Binance futures API. Order and account
// endpoints share a conservative budget well under the exchange's request
// weight limits; market data gets a bigger one.
var (
	binanceOrderLimiter   *RateLimiter
	binanceAccountLimiter *RateLimiter
	binanceMarketLimiter  *RateLimiter
	rateLimiterOnce       sync.Once
)

// GetBinanceOrderLimiter returns the limiter for order-mutating endpoints.
func GetBinanceOrderLimiter() *RateLimiter {
	rateLimiterOnce.Do(initBinanceLimiters)
	return binanceOrderLimiter
}

// GetBinanceAccountLimiter returns the limiter for account endpoints.
func GetBinanceAccountLimiter() *RateLimiter {
	rateLimiterOnce.Do(initBinanceLimiters)
	return binanceAccountLimiter
}

// GetBinanceMarketLimiter returns the limiter for market data endpoints.
func GetBinanceMarketLimiter() *RateLimiter {
	rateLimiterOnce.Do(initBinanceLimiters)
	return binanceMarketLimiter
}

func initBinanceLimiters() {
	// Conservative to avoid IP bans
	binanceOrderLimiter = NewRateLimiter(5, 10)
	binanceAccountLimiter = NewRateLimiter(5, 10)
	binanceMarketLimiter = NewRateLimiter(10, 20)
}

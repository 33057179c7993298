package routes

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"waveforge/logger"
)

// ClientLimiter bounds conversion-initiating requests per client address.
// Excess requests are rejected outright, never queued.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewClientLimiter allows rps sustained requests per client with the given
// burst.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (l *ClientLimiter) limiterFor(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.clients[client]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[client] = lim
	}
	return lim
}

// Allow reports whether the client may proceed.
func (l *ClientLimiter) Allow(client string) bool {
	return l.limiterFor(client).Allow()
}

// Wrap applies the limiter to a handler, keying on the client IP.
func (l *ClientLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}
		if !l.Allow(client) {
			logger.Warnf("Rate limit exceeded for %s", client)
			writeError(w, http.StatusTooManyRequests, "Too many conversion requests")
			return
		}
		next(w, r)
	}
}

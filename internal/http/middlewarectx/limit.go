package middlewarectx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/mining-consultancy/internal/http/response"
)

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter хранит ограничитель частоты для каждого адреса клиента.
// Клиенты, не обращавшиеся дольше idle, удаляются в Sweep.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

// NewLimiter создаёт Limiter: rps запросов в секунду с запасом burst.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *Limiter) allow(key string) bool {
	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = l.now()
	l.mu.Unlock()
	return c.lim.Allow()
}

// Sweep удаляет клиентов без запросов за последние idle и возвращает
// число удалённых записей.
func (l *Limiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Run раз в idle вызывает Sweep до отмены ctx.
func (l *Limiter) Run(ctx context.Context, log *slog.Logger, idle time.Duration) {
	const op = "middlewarectx.Limiter.Run"

	ticker := time.NewTicker(idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(idle); n > 0 {
				log.Debug("evicted idle clients", slog.String("op", op), slog.Int("count", n))
			}
		}
	}
}

// RateLimit отклоняет запросы сверх лимита клиента с кодом 429.
// Клиент определяется по адресу сокета: middleware ставится до
// middleware.RealIP.
func RateLimit(log *slog.Logger, limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientAddr(r)
			if !limiter.allow(client) {
				log.Warn("too many requests", slog.String("client", client))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("Too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

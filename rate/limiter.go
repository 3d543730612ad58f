package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per client id. Buckets idle for longer
// than Expiry minutes are dropped.
type Limiter struct {
	Expiry   int
	Burst    int
	LimitRPS float64
	clients  map[string]*clientLimiter
	mu       sync.Mutex
	done     chan struct{}
	once     sync.Once
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewLimiter(burst int, expiry int, limitRPS float64) *Limiter {
	lm := &Limiter{
		Expiry:   expiry,
		LimitRPS: limitRPS,
		Burst:    burst,
		clients:  make(map[string]*clientLimiter),
		done:     make(chan struct{}),
	}
	go lm.refresh(time.Minute)
	return lm
}

func (l *Limiter) Check(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[id]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(l.LimitRPS), l.Burst),
		}
		l.clients[id] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter.Allow()
}

// Close stops the background cleanup.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *Limiter) refresh(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-t.C:
		}

		l.mu.Lock()
		for id, v := range l.clients {
			if time.Since(v.lastAccess) > time.Duration(l.Expiry)*time.Minute {
				delete(l.clients, id)
			}
		}
		l.mu.Unlock()
	}
}

func Every(interval time.Duration) float64 {
	return float64(rate.Every(interval))
}

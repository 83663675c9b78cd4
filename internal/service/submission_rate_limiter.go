package service

import (
	"sync"
	"time"
)

// SubmissionRateLimiter limita cuantas solicitudes puede evaluar una clave por ventana.
// Las claves combinan sesion e IP de origen.
type SubmissionRateLimiter interface {
	Allow(key string) bool
}

type submissionRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	hits      map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewSubmissionRateLimiter crea un rate limiter en memoria.
func NewSubmissionRateLimiter(window time.Duration, max int) SubmissionRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &submissionRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *submissionRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	recent := pruneBefore(l.hits[key], cutoff)
	if len(recent) >= l.max {
		l.hits[key] = recent
		return false
	}
	l.hits[key] = append(recent, now)
	return true
}

// sweep elimina las claves sin envios dentro de la ventana.
func (l *submissionRateLimiter) sweep(cutoff time.Time) {
	for key, ts := range l.hits {
		recent := pruneBefore(ts, cutoff)
		if len(recent) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = recent
	}
}

// pruneBefore conserva los instantes posteriores a cutoff; ts esta ordenado.
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}

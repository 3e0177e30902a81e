package service

import (
	"context"
	"sync"
	"time"
)

// RateLimitResult describe el veredicto de admisión y los metadatos que el
// transporte expone como headers estándar (limit, remaining, reset).
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimiter decide si una acción identificada por key se admite dentro de
// la ventana vigente. Cada implementación mantiene contadores independientes
// por key.
type RateLimiter interface {
	Admit(ctx context.Context, key string) RateLimitResult
}

type rateWindow struct {
	start time.Time
	count int
}

// WindowRateLimiter es un limitador de ventana fija en memoria: un contador y
// un inicio de ventana por key, protegidos por mutex para que leer e
// incrementar sea un solo paso atómico. El estado no sobrevive reinicios del
// proceso, lo cual es aceptable para esta política.
type WindowRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	now     func() time.Time
	windows map[string]*rateWindow
}

func NewWindowRateLimiter(window time.Duration, max int) *WindowRateLimiter {
	return NewWindowRateLimiterWithClock(window, max, time.Now)
}

// NewWindowRateLimiterWithClock permite inyectar el reloj para tests
// deterministas.
func NewWindowRateLimiterWithClock(window time.Duration, max int, now func() time.Time) *WindowRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max < 1 {
		max = 1
	}
	if now == nil {
		now = time.Now
	}
	return &WindowRateLimiter{
		window:  window,
		max:     max,
		now:     now,
		windows: make(map[string]*rateWindow),
	}
}

// Admit incrementa el contador de key dentro de la ventana vigente, o abre
// una ventana nueva con count=1 si no hay ninguna activa o la anterior ya
// expiró. Admite mientras count <= max.
func (l *WindowRateLimiter) Admit(_ context.Context, key string) RateLimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &rateWindow{start: now, count: 0}
		l.windows[key] = w
	}
	w.count++

	remaining := l.max - w.count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   w.count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		Reset:     w.start.Add(l.window),
	}
}

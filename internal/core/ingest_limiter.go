package core

// ingest_limiter.go bounds how many datasets are parsed at once.
//
// Uploads and SQL loads each hold a slot while parsing. When every slot is
// busy a caller waits up to maxWait and then gets ErrTooManyIngests.
// WaitForDrain lets shutdown wait for in-flight loads.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyIngests is returned when no slot frees up within the wait time.
var ErrTooManyIngests = errors.New("too many datasets loading, please try again later")

const (
	DefaultMaxConcurrentIngests = 4
	DefaultMaxWaitTime          = 30 * time.Second
)

// IngestLimiter is a counting semaphore over dataset loads.
type IngestLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewIngestLimiter allows at most maxConcurrent loads. Non-positive
// arguments fall back to the defaults.
func NewIngestLimiter(maxConcurrent int, maxWait time.Duration) *IngestLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentIngests
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &IngestLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot. The caller must Release it.
func (l *IngestLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyIngests
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *IngestLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *IngestLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

func (l *IngestLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

func (l *IngestLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

func (l *IngestLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until no load is active or ctx ends.
func (l *IngestLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// IngestStatus is a snapshot for the health endpoint.
type IngestStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

func (l *IngestLimiter) Status() IngestStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return IngestStatus{
		Active:        active,
		Available:     l.Available(),
		MaxConcurrent: cap(l.semaphore),
	}
}

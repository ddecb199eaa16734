package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache is a keyed store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache[T any] interface {
	// Get returns the cached value and whether it was present and fresh.
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T) error
	Delete(ctx context.Context, key string) error
}

// Cleaner is implemented by caches that hold expired entries until swept.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps expired entries from registered caches.
type Janitor struct {
	caches []Cleaner
	stop   chan struct{}
	done   chan struct{}
}

func NewJanitor(caches ...Cleaner) *Janitor {
	return &Janitor{
		caches: caches,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start runs the sweep loop in a goroutine until Stop is called.
func (j *Janitor) Start(interval time.Duration) {
	go func() {
		defer close(j.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed := 0
				for _, c := range j.caches {
					removed += c.CleanExpired()
				}
				if removed > 0 {
					slog.Debug("cache sweep", "removed", removed)
				}
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop ends the sweep loop and waits for it to exit. Start must have been called.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}

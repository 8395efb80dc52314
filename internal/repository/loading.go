package repository

import (
	"sync"
	"sync/atomic"
)

// loadTracker reports whether the initial load has resolved
type loadTracker struct {
	loading atomic.Bool
	ready   chan struct{}
	once    sync.Once
}

func (t *loadTracker) init() {
	t.ready = make(chan struct{})
	t.loading.Store(true)
}

func (t *loadTracker) resolve() {
	t.once.Do(func() {
		t.loading.Store(false)
		close(t.ready)
	})
}

// IsLoading is true until the first load resolves, successfully or not
func (t *loadTracker) IsLoading() bool {
	return t.loading.Load()
}

// Ready is closed when the first load resolves
func (t *loadTracker) Ready() <-chan struct{} {
	return t.ready
}

package cli

import (
	"sync"
	"time"
)

// redirector runs at most one delayed navigation. A newer schedule replaces
// the pending one; cancel drops it and waits for a callback that already
// started.
type redirector struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	wg    sync.WaitGroup
}

func (r *redirector) schedule(d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.gen++
	gen := r.gen
	r.wg.Add(1)
	r.timer = time.AfterFunc(d, func() {
		defer r.wg.Done()

		r.mu.Lock()
		if gen != r.gen {
			r.mu.Unlock()
			return
		}
		r.timer = nil
		r.mu.Unlock()

		fn()
	})
}

// stopLocked stops the pending timer. A timer that was stopped before firing
// never runs its func, so its wg slot is released here.
func (r *redirector) stopLocked() {
	if r.timer != nil && r.timer.Stop() {
		r.wg.Done()
	}
	r.timer = nil
}

func (r *redirector) pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

func (r *redirector) cancel() {
	r.mu.Lock()
	r.stopLocked()
	r.gen++
	r.mu.Unlock()

	r.wg.Wait()
}

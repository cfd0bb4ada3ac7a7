package subscription

import (
	"context"
	"sync"
)

// RunTracker hands out generations for repeated reconciliation runs. Starting
// a run cancels the one before it, and results of a run are only applied when
// no newer run has committed yet.
type RunTracker struct {
	mu        sync.Mutex
	last      uint64
	committed uint64
	active    uint64
	cancel    context.CancelFunc
}

// Begin starts a new generation and cancels the previous in-flight run.
func (t *RunTracker) Begin(ctx context.Context) (context.Context, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.last++
	runCtx, cancel := context.WithCancel(ctx)
	t.active = t.last
	t.cancel = cancel
	return runCtx, t.last
}

// Commit calls apply when gen is newer than the last committed generation and
// reports whether it did.
func (t *RunTracker) Commit(gen uint64, apply func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen <= t.committed {
		return false
	}
	t.committed = gen
	if apply != nil {
		apply()
	}
	return true
}

// Done releases the context of gen if it is still the active run.
func (t *RunTracker) Done(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen == t.active && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Committed returns the last committed generation.
func (t *RunTracker) Committed() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

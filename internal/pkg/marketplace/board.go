package marketplace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/subscription"
)

// ErrSuperseded is returned by Refresh when a newer refresh started or
// committed before this one finished.
var ErrSuperseded = errors.New("refresh superseded by a newer run")

// SellerLister is the part of the client the board needs.
type SellerLister interface {
	ListSellers(ctx context.Context) (*ListResult, error)
}

// BoardSnapshot is the last committed seller list.
type BoardSnapshot struct {
	Generation  uint64
	RunID       string
	RefreshedAt time.Time
	Items       []Item
	Warning     error
}

// SellerBoard keeps the latest seller list for a consumer that refreshes
// repeatedly. A refresh cancels the one in flight, and a slow run can never
// replace the result of a newer one.
type SellerBoard struct {
	lister  SellerLister
	tracker subscription.RunTracker
	now     func() time.Time

	mu       sync.RWMutex
	snapshot BoardSnapshot
}

// NewSellerBoard creates a board backed by lister.
func NewSellerBoard(lister SellerLister) *SellerBoard {
	return &SellerBoard{lister: lister, now: time.Now}
}

// Refresh loads the seller list and commits it as the new snapshot.
func (b *SellerBoard) Refresh(ctx context.Context) error {
	runCtx, gen := b.tracker.Begin(ctx)
	defer b.tracker.Done(gen)

	runID := uuid.NewString()
	log.Debugf("[SellerBoard] run %s (generation %d) started", runID, gen)

	res, err := b.lister.ListSellers(runCtx)
	if err != nil {
		if runCtx.Err() != nil && ctx.Err() == nil {
			return ErrSuperseded
		}
		return err
	}
	if runCtx.Err() != nil {
		return ErrSuperseded
	}

	committed := b.tracker.Commit(gen, func() {
		b.mu.Lock()
		b.snapshot = BoardSnapshot{
			Generation:  gen,
			RunID:       runID,
			RefreshedAt: b.now(),
			Items:       res.Items,
			Warning:     res.Warning,
		}
		b.mu.Unlock()
	})
	if !committed {
		log.Debugf("[SellerBoard] run %s (generation %d) discarded", runID, gen)
		return ErrSuperseded
	}
	log.Debugf("[SellerBoard] run %s committed %d sellers", runID, len(res.Items))
	return nil
}

// Snapshot returns the last committed result.
func (b *SellerBoard) Snapshot() BoardSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot
}

// Watch refreshes every interval until ctx is done, calling onUpdate after
// each committed refresh. The first refresh runs immediately.
func (b *SellerBoard) Watch(ctx context.Context, interval time.Duration, onUpdate func(BoardSnapshot)) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch err := b.Refresh(ctx); {
		case err == nil:
			if onUpdate != nil {
				onUpdate(b.Snapshot())
			}
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrSuperseded):
		default:
			log.Errorf("[SellerBoard] refresh failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

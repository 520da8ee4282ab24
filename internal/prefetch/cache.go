// Package prefetch provides a single-slot, keyed cache for speculative
// background question generation. While the user is answering questions
// for one objective, the next objective's batch is generated in the
// background; the consumer only ever accepts a result whose objective
// index exactly matches the one it is about to need.
package prefetch

import (
	"context"
	"sync"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// Result is the outcome of a background generation.
type Result struct {
	MCQs []core.MCQ
	Err  error
}

// Future resolves to a Result exactly once.
type Future struct {
	done chan struct{}
	res  Result
}

// Await blocks until the future resolves or the context is cancelled.
func (f *Future) Await(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Ready reports whether the future has already resolved.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Entry is a pending or resolved prefetch bound to one objective index.
type Entry struct {
	ObjectiveIndex int
	Future         *Future
}

// Cache holds at most one entry per session key. A new Set overwrites
// any prior entry (last-writer-wins, no queueing); an overwritten
// prefetch runs to completion and is simply never read. There is no
// cancellation: abandoning a session leaves its prefetch to resolve
// harmlessly into an unread slot.
type Cache struct {
	mu    sync.Mutex
	slots map[string]Entry
	wg    sync.WaitGroup
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{slots: make(map[string]Entry)}
}

// Set launches fn in the background and records the pending entry for
// the session key, replacing any prior entry.
func (c *Cache) Set(sessionKey string, objectiveIndex int, fn func() ([]core.MCQ, error)) {
	f := &Future{done: make(chan struct{})}

	c.mu.Lock()
	c.slots[sessionKey] = Entry{ObjectiveIndex: objectiveIndex, Future: f}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		mcqs, err := fn()
		f.res = Result{MCQs: mcqs, Err: err}
		close(f.done)
	}()
}

// Get returns the current entry for the session key, if any. The entry
// remains in the cache; callers that consume it must Delete it.
func (c *Cache) Get(sessionKey string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.slots[sessionKey]
	return e, ok
}

// Delete removes the entry for the session key.
func (c *Cache) Delete(sessionKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, sessionKey)
}

// Take consumes the entry for the session key if and only if its
// objective index matches the wanted index. A mismatched entry is
// discarded (stale content must never reach a session); a matched entry
// is removed from the cache before its future is returned, preventing
// reuse. The boolean reports whether a matching future was returned.
func (c *Cache) Take(sessionKey string, wantIndex int) (*Future, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.slots[sessionKey]
	if !ok {
		return nil, false
	}
	delete(c.slots, sessionKey)
	if e.ObjectiveIndex != wantIndex {
		return nil, false
	}
	return e.Future, true
}

// Wait blocks until all launched prefetches have resolved. Test helper;
// production code never waits on background generation.
func (c *Cache) Wait() {
	c.wg.Wait()
}

/*
 * MIT License
 *
 * Copyright (c) 2026 The Instaworks Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package mutexreg implements the named mutex registry that interlocks
// with threadreg to make cycle-based deadlock detection possible.
//
// Grounded on spec.md 4.7 / original_source/includes/iw_mutex.h. The
// critical property carried over verbatim is the release-before-block
// pattern in Lock: the registry's own RWMutex is never held while a
// caller blocks on a named mutex's native lock, so the registry lock
// never becomes a second, false-positive point of serialization.
package mutexreg

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/instaworks/instaworks/threadreg"
)

// ID identifies a registered mutex. Zero means "no mutex" (used by
// threadreg.Record.AwaitedMutex to mean "not waiting").
type ID uint64

type record struct {
	id    ID
	name  string
	mu    sync.Mutex
	owner threadreg.Handle // 0 if unlocked.
}

// Registry is the process-wide named-mutex registry.
type Registry struct {
	mu      sync.RWMutex
	records map[ID]*record
	nextID  uint64
	threads *threadreg.Registry
}

// New creates an empty mutex registry. threads is consulted (and updated)
// to record which mutex each calling thread is currently awaiting.
func New(threads *threadreg.Registry) *Registry {
	return &Registry{records: make(map[ID]*record), threads: threads}
}

// Create allocates a record, assigns the next monotonic id, and returns it.
func (r *Registry) Create(name string) ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ID(atomic.AddUint64(&r.nextID, 1))
	r.records[id] = &record{id: id, name: name}
	return id
}

// Lock acquires the mutex identified by id on behalf of the calling
// thread, resolved from ctx (see threadreg.WithHandle). It first tries a
// non-blocking acquisition while holding only a read lock on the
// registry; on contention it releases that read lock before blocking, so
// other threads can still create/lock/unlock/destroy unrelated mutexes
// (and the health loop can still walk the wait-for graph) while this call
// is parked.
func (r *Registry) Lock(ctx context.Context, id ID) bool {
	self := threadreg.HandleFromContext(ctx)
	r.mu.RLock()
	rec, ok := r.records[id]
	if !ok {
		r.mu.RUnlock()
		return false
	}
	r.threads.SetAwaitedMutex(self, uint64(id))

	if rec.mu.TryLock() {
		rec.owner = self
		r.threads.SetAwaitedMutex(self, 0)
		r.mu.RUnlock()
		return true
	}
	r.mu.RUnlock()

	rec.mu.Lock()

	r.mu.RLock()
	rec, ok = r.records[id]
	r.mu.RUnlock()
	if !ok {
		// Destroyed while we were blocked; nothing left to own.
		return false
	}
	rec.owner = self
	r.threads.SetAwaitedMutex(self, 0)
	return true
}

// Unlock releases the mutex identified by id.
func (r *Registry) Unlock(id ID) bool {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	rec.owner = 0
	rec.mu.Unlock()
	return true
}

// Destroy removes the record for id. Callers must ensure the mutex is
// unlocked first; Destroy does not forcibly release it.
func (r *Registry) Destroy(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return false
	}
	delete(r.records, id)
	return true
}

// Owner returns the handle of the thread currently holding id, or 0 if
// unlocked or id is unknown.
func (r *Registry) Owner(id ID) threadreg.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return 0
	}
	return rec.owner
}

// Name returns the display name for id.
func (r *Registry) Name(id ID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return "", false
	}
	return rec.name, true
}

// IDs returns every currently registered mutex id, for dump/health-loop
// traversal.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ID, 0, len(r.records))
	for id := range r.records {
		out = append(out, id)
	}
	return out
}

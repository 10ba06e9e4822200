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

// Package threadreg models the original per-OS-thread registry on top of
// goroutines.
//
// Grounded on spec.md 4.6 / original_source/includes/iw_thread.h. The
// original identifies a thread by its OS thread handle and recovers "the
// current thread's record" from thread-local storage inside its signal
// handler. Go has neither stable OS-thread handles nor per-goroutine
// signal delivery, so this package substitutes two things documented here
// rather than left implicit:
//
//  1. "Self" is carried explicitly via context.Context (WithHandle/
//     HandleFromContext) instead of thread-local storage: Spawn binds the
//     new record's Handle into the context passed to the goroutine's
//     entry function, and RegisterMain returns a context the caller must
//     thread through its own work. A handle of 0 passed to SetLog/GetLog
//     resolves against the context's handle, matching the "handle == 0
//     means this thread" convention from spec.md 4.6.
//  2. Callstack capture cannot target one goroutine in isolation (no
//     per-goroutine signal); it records the goroutine id at spawn time
//     (see callstack.go) and, on request, greps that goroutine's frames
//     out of a full runtime.Stack dump.
package threadreg

import (
	"context"
	"sync"
	"sync/atomic"
)

// Handle identifies a registered thread. Zero is never assigned to a real
// thread; it is reserved for "resolve via context" in SetLog/GetLog.
type Handle uint64

// Record is one thread's registry entry.
type Record struct {
	Handle       Handle
	Name         string
	LogEnabled   bool
	AwaitedMutex uint64 // mutex id this thread is blocked on, 0 if none.
	IsClient     bool   // client (joinable, transient) vs framework thread.
	goroutineID  uint64
	done         chan struct{}
}

type ctxKey struct{}

// WithHandle returns a context carrying handle as "the current thread".
func WithHandle(parent context.Context, h Handle) context.Context {
	return context.WithValue(parent, ctxKey{}, h)
}

// HandleFromContext returns the handle bound by WithHandle, or 0 if none.
func HandleFromContext(ctx context.Context) Handle {
	h, _ := ctx.Value(ctxKey{}).(Handle)
	return h
}

// Registry is the process-wide thread registry. The zero value is not
// usable; construct with New.
type Registry struct {
	mu      sync.RWMutex
	records map[Handle]*Record
	nextID  uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{records: make(map[Handle]*Record)}
}

func (r *Registry) allocHandle() Handle {
	return Handle(atomic.AddUint64(&r.nextID, 1))
}

// RegisterMain synchronously inserts the calling (main) thread's record
// and returns a context carrying its handle for the caller to use as
// "self" in subsequent calls.
func (r *Registry) RegisterMain(ctx context.Context, name string) (context.Context, Handle) {
	r.mu.Lock()
	h := r.allocHandle()
	r.records[h] = &Record{Handle: h, Name: name, LogEnabled: true, goroutineID: currentGoroutineID()}
	r.mu.Unlock()
	return WithHandle(ctx, h), h
}

// Spawn allocates a record, starts fn as a new goroutine, and has that
// goroutine register its own goroutine id before running fn with a
// context carrying its handle. If fn panics, the record is still removed
// on return so the registry never leaks entries for dead threads.
func (r *Registry) Spawn(ctx context.Context, name string, isClient bool, fn func(ctx context.Context)) Handle {
	r.mu.Lock()
	h := r.allocHandle()
	rec := &Record{Handle: h, Name: name, LogEnabled: true, IsClient: isClient, done: make(chan struct{})}
	r.records[h] = rec
	r.mu.Unlock()

	go func() {
		defer close(rec.done)
		defer func() {
			r.mu.Lock()
			delete(r.records, h)
			r.mu.Unlock()
		}()
		r.mu.Lock()
		rec.goroutineID = currentGoroutineID()
		r.mu.Unlock()
		fn(WithHandle(ctx, h))
	}()

	return h
}

func (r *Registry) resolve(h, self Handle) (*Record, bool) {
	if h == 0 {
		h = self
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[h]
	return rec, ok
}

// SetLog mutates the log-enabled flag for handle, or for self if handle is
// zero.
func (r *Registry) SetLog(ctx context.Context, handle Handle, on bool) bool {
	rec, ok := r.resolve(handle, HandleFromContext(ctx))
	if !ok {
		return false
	}
	r.mu.Lock()
	rec.LogEnabled = on
	r.mu.Unlock()
	return true
}

// SetLogAll mutates the log-enabled flag for every registered thread.
func (r *Registry) SetLogAll(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		rec.LogEnabled = on
	}
}

// GetLog reads the log-enabled flag for handle, or for self if zero. A
// missing thread reads as false.
func (r *Registry) GetLog(ctx context.Context, handle Handle) bool {
	rec, ok := r.resolve(handle, HandleFromContext(ctx))
	if !ok {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return rec.LogEnabled
}

// SetAwaitedMutex records which mutex id a thread is blocked on; 0 clears
// it. Used by the mutex registry and consulted by the health loop.
func (r *Registry) SetAwaitedMutex(h Handle, mutexID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[h]; ok {
		rec.AwaitedMutex = mutexID
	}
}

// Snapshot returns a point-in-time copy of every registered thread's
// record, for dump/wait_all/health-loop traversal.
func (r *Registry) Snapshot() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out
}

// Get returns a copy of the record for handle, if present.
func (r *Registry) Get(h Handle) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[h]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// WaitAll repeatedly finds the first client thread and waits for its
// goroutine to return (the goroutine removes its own record before
// signalling), until no client threads remain. The registry lock is released before waiting, matching the
// concurrency discipline in spec.md 4.6 (joins happen without holding the
// lock).
func (r *Registry) WaitAll() {
	for {
		r.mu.RLock()
		var target *Record
		for _, rec := range r.records {
			if rec.IsClient {
				target = rec
				break
			}
		}
		r.mu.RUnlock()

		if target == nil {
			return
		}
		<-target.done
	}
}

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

// Package health runs the periodic deadlock-scan loop and exposes its
// findings as Prometheus gauges.
//
// Grounded on spec.md 4.9: a dedicated goroutine wakes once a second,
// walks the wait-for graph threadreg/mutexreg share, and on detecting a
// cycle dumps every thread's callstack before stopping --
// detection is terminal, recovery is out of scope.
package health

import (
	"context"
	"time"

	"github.com/instaworks/instaworks/internal/oplog"
	"github.com/instaworks/instaworks/mutexreg"
	"github.com/instaworks/instaworks/threadreg"
)

// Interval is the fixed scan period from spec.md 4.9.
const Interval = time.Second

// Loop periodically scans for wait-for cycles between threadreg and
// mutexreg.
type Loop struct {
	threads *threadreg.Registry
	mutexes *mutexreg.Registry
	log     oplog.Logger
	metrics *Metrics

	stop chan struct{}
	done chan struct{}
}

// New creates a Loop over the given registries.
func New(threads *threadreg.Registry, mutexes *mutexreg.Registry, log oplog.Logger) *Loop {
	return &Loop{
		threads: threads,
		mutexes: mutexes,
		log:     log,
		metrics: newMetrics(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Metrics returns the Prometheus collectors this loop updates; the caller
// registers them with whatever registry backs the web surface's /metrics
// route.
func (l *Loop) Metrics() *Metrics { return l.metrics }

// Start launches the scan goroutine. Stop blocks until it has exited.
func (l *Loop) Start() {
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(Interval)
		defer ticker.Stop()
		for {
			select {
			case <-l.stop:
				return
			case <-ticker.C:
				if l.scanOnce() {
					return // detection is terminal.
				}
			}
		}
	}()
}

// Stop requests the loop to exit and waits for it to do so.
func (l *Loop) Stop() {
	close(l.stop)
	<-l.done
}

// ScanOnceForTest runs a single scan synchronously; exported for use by
// this package's test suite, which needs deterministic, non-ticker-driven
// control over when a scan happens.
func (l *Loop) ScanOnceForTest() bool { return l.scanOnce() }

// scanOnce performs one deadlock scan and reports whether a cycle was
// found.
func (l *Loop) scanOnce() bool {
	threads := l.threads.Snapshot()
	l.metrics.Threads.Set(float64(len(threads)))
	l.metrics.Mutexes.Set(float64(len(l.mutexes.IDs())))

	for _, t0 := range threads {
		if t0.AwaitedMutex == 0 {
			continue
		}
		if cycle := l.walk(t0.Handle); cycle {
			l.metrics.Deadlocks.Inc()
			l.log.Error("deadlock detected", oplog.Fields{"thread": t0.Name})
			l.dumpCallstacks()
			return true
		}
	}
	return false
}

// walk follows T0 -> M0 -> owner(M0) = T1 -> M1 -> ... until the chain
// ends (no one is waiting, or a lookup is absent) or it returns to T0.
func (l *Loop) walk(t0 threadreg.Handle) bool {
	current := t0
	for {
		rec, ok := l.threads.Get(current)
		if !ok || rec.AwaitedMutex == 0 {
			return false
		}
		owner := l.mutexes.Owner(mutexreg.ID(rec.AwaitedMutex))
		if owner == 0 {
			return false
		}
		if owner == t0 {
			return true
		}
		current = owner
	}
}

// dumpCallstacks writes every thread's backtrace to the log ring via the
// diagnostic-signal mechanism (threadreg.Callstack), in logging mode as
// described in spec.md 4.9.
func (l *Loop) dumpCallstacks() {
	for _, t := range l.threads.Snapshot() {
		stack, ok := l.threads.Callstack(t.Handle)
		if !ok {
			continue
		}
		l.log.Error("thread callstack:\n%s", oplog.Fields{"thread": t.Name}, stack)
	}
}

// ctxDone adapts a context's cancellation into the same shutdown path as
// Stop, for callers (the supervisor) that prefer to cancel a context
// rather than call Stop directly.
func (l *Loop) ctxDone(ctx context.Context) {
	select {
	case <-ctx.Done():
		l.Stop()
	case <-l.done:
	}
}

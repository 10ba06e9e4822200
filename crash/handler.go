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

//go:build unix

// Package crash implements the signal/crash handler: per-thread diagnostic
// dumps, orderly-then-forced interrupt shutdown, and a fatal-signal
// crash-report writer.
//
// Grounded on spec.md 4.8 / original_source/includes/iw_main.h's signal
// dispatch, `unix` build-tagged since the original is POSIX-only.
//
// Go's runtime, not this package, is what actually receives SIGSEGV/SIGBUS/
// SIGILL/SIGFPE/SIGABRT at the machine level: by default it converts them
// into a runtime panic. Calling signal.Notify for them here (as this
// package does) opts back out of that conversion, per the os/signal
// documentation, and hands the raw signal to handleFatal instead -- the
// closest a Go program can get to the original's sigaction-based crash
// handler. Go also cannot guarantee handleFatal runs without allocating or
// scheduling (there is no real async-signal-safe execution context in the
// language), so the safety goal is approximated rather than guaranteed:
// handleFatal still avoids fmt and bytes.Buffer, building its output with
// fixed stack arrays and writing through golang.org/x/sys/unix.Write
// directly to the file descriptor, the same operations the original uses.
package crash

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/instaworks/instaworks/internal/oplog"
	"github.com/instaworks/instaworks/logring"
	"github.com/instaworks/instaworks/mutexreg"
	"github.com/instaworks/instaworks/threadreg"
)

// Handler owns the signal channel and the components a diagnostic dump or
// an orderly shutdown needs to reach.
type Handler struct {
	threads   *threadreg.Registry
	mutexes   *mutexreg.Registry
	ring      *logring.Ring
	log       oplog.Logger
	termFn    func()
	crashPath string
	exitFn    func(code int) // unix.Exit in production; stubbed in tests.

	interruptOnce int32 // 0 = no interrupt seen yet, 1 = shutdown in progress
	sigCh         chan os.Signal
}

// New constructs a Handler. crashPath is the file truncated and written on
// a fatal signal; termFn is the user's termination callback, invoked once
// on the first interrupt signal.
func New(threads *threadreg.Registry, mutexes *mutexreg.Registry, ring *logring.Ring, log oplog.Logger, crashPath string, termFn func()) *Handler {
	return &Handler{
		threads:   threads,
		mutexes:   mutexes,
		ring:      ring,
		log:       log,
		termFn:    termFn,
		crashPath: crashPath,
		exitFn:    unix.Exit,
		sigCh:     make(chan os.Signal, 8),
	}
}

// diagnosticSignal is the per-thread introspection trigger, SIGUSR1 in the
// original.
const diagnosticSignal = syscall.SIGUSR1

var fatalSignals = []os.Signal{
	syscall.SIGILL,
	syscall.SIGABRT,
	syscall.SIGFPE,
	syscall.SIGBUS,
	syscall.SIGSEGV,
}

// Start registers the handler's signals and runs its dispatch loop in a
// registered framework thread until ctx is done or Stop is called.
func (h *Handler) Start(ctx context.Context) {
	signals := append([]os.Signal{diagnosticSignal, syscall.SIGINT, syscall.SIGTERM}, fatalSignals...)
	signal.Notify(h.sigCh, signals...)

	h.threads.Spawn(ctx, "crash-handler", false, func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-h.sigCh:
				if !ok {
					return
				}
				h.dispatch(ctx, sig)
			}
		}
	})
}

// Stop unregisters the handler's signals.
func (h *Handler) Stop() {
	signal.Stop(h.sigCh)
}

func (h *Handler) dispatch(ctx context.Context, sig os.Signal) {
	switch sig {
	case diagnosticSignal:
		h.handleDiagnostic(ctx)
	case syscall.SIGINT, syscall.SIGTERM:
		h.handleInterrupt()
	default:
		h.handleFatal(sig)
	}
}

// handleInterrupt implements spec.md 4.8's two-stage interrupt: the first
// delivery invokes the user's termination callback and joins client
// threads; a second delivery during that shutdown forces an immediate
// exit.
func (h *Handler) handleInterrupt() {
	if !atomic.CompareAndSwapInt32(&h.interruptOnce, 0, 1) {
		h.exitFn(130)
		return
	}
	if h.termFn != nil {
		h.termFn()
	}
	h.threads.WaitAll()
}

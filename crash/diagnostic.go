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

package crash

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/instaworks/instaworks/threadreg"
)

// handleDiagnostic writes a header, the current thread's name, its awaited
// mutex (if any), and a backtrace into the log ring, per spec.md 4.8. The
// "current thread" is resolved from ctx the same way every other
// threadreg-aware call resolves self, since Go has no thread-local storage
// to recover it from inside a true signal handler.
func (h *Handler) handleDiagnostic(ctx context.Context) {
	self := threadreg.HandleFromContext(ctx)
	rec, ok := h.threads.Get(self)

	var b bytes.Buffer
	b.WriteString("--- diagnostic dump ---\n")
	if ok {
		fmt.Fprintf(&b, "thread: %s (handle=%d)\n", rec.Name, rec.Handle)
		if rec.AwaitedMutex != 0 {
			fmt.Fprintf(&b, "awaiting mutex: %d\n", rec.AwaitedMutex)
		}
	} else {
		b.WriteString("thread: <unresolved>\n")
	}

	stack := make([]byte, 1<<16)
	n := runtime.Stack(stack, false)
	b.Write(stack[:n])

	h.ring.Write(time.Now(), b.Bytes())
}

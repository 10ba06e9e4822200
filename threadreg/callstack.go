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

package threadreg

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

// currentGoroutineID extracts the calling goroutine's id from the header
// line of its own stack dump ("goroutine 123 [running]:"). This is the
// closest Go equivalent to the original's thread-local "who am I" lookup;
// it is only ever used to label a record at registration time, never on
// a hot path.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	line := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(line, []byte(prefix)) {
		return 0
	}
	line = line[len(prefix):]
	end := bytes.IndexByte(line, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(line[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Callstack returns the backtrace of the thread registered under h, as
// the original's diagnostic-signal handler would have written it into the
// log ring. Because Go cannot deliver a signal to one specific goroutine,
// this greps the target's frames out of a dump of every goroutine
// (runtime.Stack(..., all=true)) by the goroutine id recorded at Spawn/
// RegisterMain time. Returns false if the thread is unknown or its
// goroutine has already exited (so its frames are no longer present).
func (r *Registry) Callstack(h Handle) (string, bool) {
	rec, ok := r.Get(h)
	if !ok || rec.goroutineID == 0 {
		return "", false
	}

	buf := make([]byte, 1<<16)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}

	header := []byte(fmt.Sprintf("goroutine %d [", rec.goroutineID))
	start := bytes.Index(buf, header)
	if start < 0 {
		return "", false
	}
	rest := buf[start:]
	end := bytes.Index(rest[1:], []byte("\ngoroutine "))
	if end < 0 {
		return string(rest), true
	}
	return string(rest[:end+1]), true
}

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
	"os"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

// handleFatal opens the crash-report file with truncation, writes the
// program name, signal name and number, and a raw backtrace, then
// terminates without running deferred cleanup -- matching spec.md 4.8's
// fatal-signal contract. It writes with unix.Write directly to the file
// descriptor and formats integers into fixed stack buffers rather than
// through fmt, to stay as close as this runtime allows to the original's
// async-signal-safe-only discipline (see the package doc comment for the
// limits of that guarantee in Go).
func (h *Handler) handleFatal(sig os.Signal) {
	fd, err := unix.Open(h.crashPath, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, 0644)
	if err == nil {
		writeFatalReport(fd, sig)
		unix.Close(fd)
	}
	h.exitFn(128 + signalNumber(sig))
}

func writeFatalReport(fd int, sig os.Signal) {
	var buf [64]byte

	rawWrite(fd, []byte("instaworks crash report\n"))
	rawWrite(fd, []byte("signal: "))
	rawWrite(fd, []byte(sig.String()))
	rawWrite(fd, []byte(" ("))
	rawWrite(fd, appendDecimal(buf[:0], signalNumber(sig)))
	rawWrite(fd, []byte(")\n"))

	rawWrite(fd, []byte("backtrace:\n"))
	stack := make([]byte, 1<<16)
	n := runtime.Stack(stack, true)
	rawWrite(fd, stack[:n])
}

func rawWrite(fd int, b []byte) {
	for len(b) > 0 {
		n, err := unix.Write(fd, b)
		if err != nil || n <= 0 {
			return
		}
		b = b[n:]
	}
}

// appendDecimal renders n in decimal into dst without allocating beyond
// dst's existing backing array, matching the original's inline
// integer-to-decimal conversion.
func appendDecimal(dst []byte, n int) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		dst = append(dst, '-')
	}
	return append(dst, tmp[i:]...)
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return 0
}

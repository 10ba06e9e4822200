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

// Package buffer implements a growable, compacting byte buffer with a hard
// capacity cap. It is used by the command server and the HTTP parser to
// accumulate partial input without ever exposing a non-contiguous region.
//
// Grounded on original_source/includes/iw_buff.h and iw_buff.c: reserve
// grows the backing slice up to Max, commit advances the logical end after
// an external writer (e.g. a socket Read) fills the reserved tail, and
// DropFront compacts by copying the unconsumed remainder to offset zero.
package buffer

import "github.com/instaworks/instaworks/internal/opserr"

// Buffer is a growable byte region with a current length and a hard cap.
// Not safe for concurrent use; callers serialize access (the command
// server and HTTP parser each own one buffer per connection).
type Buffer struct {
	buf []byte
	end int
	max int
}

// New returns a Buffer that starts at the given initial capacity and never
// grows past max. A max of 0 means unbounded.
func New(initial, max int) *Buffer {
	if initial < 0 {
		initial = 0
	}
	return &Buffer{
		buf: make([]byte, initial),
		max: max,
	}
}

// Len returns the number of live bytes currently held.
func (b *Buffer) Len() int { return b.end }

// Cap returns the current backing capacity (not the hard max).
func (b *Buffer) Cap() int { return len(b.buf) }

// Max returns the hard capacity cap (0 means unbounded).
func (b *Buffer) Max() int { return b.max }

// Bytes returns the live region as a slice. The slice is only valid until
// the next call to Reserve (if it grows the backing array) or DropFront.
func (b *Buffer) Bytes() []byte { return b.buf[:b.end] }

// Remaining returns the current tail capacity: how many bytes could be
// committed right now without a further Reserve call.
func (b *Buffer) Remaining() int { return len(b.buf) - b.end }

// Reserve ensures at least n bytes of writable tail space exist after the
// current end, growing the backing array (up to Max) if required, and
// returns that tail region. The caller writes into the returned slice (or
// a sub-slice of it) and then calls Commit with how much was actually
// written.
func (b *Buffer) Reserve(n int) ([]byte, error) {
	need := b.end + n
	if b.max > 0 && need > b.max {
		return nil, opserr.New(opserr.KindResourceExhaustion,
			"reserve %d bytes would exceed buffer maximum %d", n, b.max)
	}

	if need > len(b.buf) {
		grown := growTo(len(b.buf), need)
		if b.max > 0 && grown > b.max {
			grown = b.max
		}
		nb := make([]byte, grown)
		copy(nb, b.buf[:b.end])
		b.buf = nb
	}

	return b.buf[b.end : b.end+n], nil
}

// growTo doubles cur until it reaches need (minimum 64 bytes to start).
func growTo(cur, need int) int {
	if cur == 0 {
		cur = 64
	}
	for cur < need {
		cur *= 2
	}
	return cur
}

// Commit advances the logical end by n bytes after an external writer has
// populated the region returned by the most recent Reserve call. n must
// not exceed the reserved tail space.
func (b *Buffer) Commit(n int) {
	if n < 0 {
		return
	}
	if b.end+n > len(b.buf) {
		n = len(b.buf) - b.end
	}
	b.end += n
}

// Append reserves, copies p in, and commits in one call.
func (b *Buffer) Append(p []byte) error {
	dst, err := b.Reserve(len(p))
	if err != nil {
		return err
	}
	n := copy(dst, p)
	b.Commit(n)
	return nil
}

// DropFront removes the first n bytes, moving the remainder to offset zero
// in O(remaining). This invalidates every slice previously returned by
// Bytes or Reserve. Preserved as a copy (not a ring) per the Open Question
// decision in SPEC_FULL.md: the HTTP parser and command line scanner both
// assume a contiguous buffer starting at offset zero between calls.
func (b *Buffer) DropFront(n int) {
	if n <= 0 {
		return
	}
	if n >= b.end {
		b.end = 0
		return
	}
	copy(b.buf, b.buf[n:b.end])
	b.end -= n
}

// Reset empties the buffer without releasing the backing array.
func (b *Buffer) Reset() {
	b.end = 0
}

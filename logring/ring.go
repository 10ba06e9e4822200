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

// Package logring implements the in-memory, fixed-capacity log ring buffer
// with variable-length records and oldest-first eviction.
//
// Grounded on spec.md 4.5 (original_source/includes/iw_log.h covers only
// the level bitmask, not the ring's byte layout, so the record layout and
// write/read algorithms below follow the distilled specification directly):
// each record is `length | timestamp | NUL-terminated payload`, the writer
// never splits a record across the buffer end -- it drops a zero-length
// sentinel and wraps instead -- and eviction proceeds oldest-first until
// enough room opens up.
package logring

import (
	"encoding/binary"
	"sync"
	"time"
)

const (
	lengthFieldSize    = 4
	timestampFieldSize = 8
	headerSize         = lengthFieldSize + timestampFieldSize
)

// Record is one decoded ring entry.
type Record struct {
	Timestamp time.Time
	Payload   []byte
}

// Ring is a fixed-capacity byte ring holding length-prefixed records.
type Ring struct {
	mu   sync.Mutex
	buf  []byte
	cap  int
	w, r int
	// full disambiguates w==r: without it that state is indistinguishable
	// from an empty ring. Set whenever a write leaves no gap between the
	// cursors, cleared by any eviction or Clear.
	full bool
}

// New creates a Ring with the given total byte capacity.
func New(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity), cap: capacity}
}

// Capacity returns the ring's total byte capacity.
func (rg *Ring) Capacity() int { return rg.cap }

// Write appends a formatted log message. Messages whose encoded record
// would exceed the ring's total capacity are silently dropped -- never
// truncated, per the Invariants in spec.md 4.5.
func (rg *Ring) Write(ts time.Time, payload []byte) bool {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	m := len(payload) + 1 // +1 for the NUL terminator
	recSize := headerSize + m
	if recSize > rg.cap {
		return false
	}

	for {
		available := rg.availableLocked()
		if recSize <= available {
			rg.writeRecordLocked(ts, payload, recSize)
			return true
		}

		if rg.cap-rg.w < recSize {
			// Not enough room before the physical end: sentinel + wrap,
			// then evict oldest-first (spec.md 4.5 step 5) until the new
			// record fits -- evicting the minimum needed, never more.
			rg.writeSentinelLocked()
			rg.w = 0
			rg.r = 0
			for rg.r-rg.w < recSize {
				rg.evictOneLocked()
			}
			continue
		}

		rg.evictOneLocked()
	}
}

func (rg *Ring) availableLocked() int {
	if rg.full {
		return 0
	}
	if rg.r <= rg.w {
		return rg.cap - rg.w
	}
	return rg.r - rg.w
}

func (rg *Ring) writeRecordLocked(ts time.Time, payload []byte, recSize int) {
	binary.BigEndian.PutUint32(rg.buf[rg.w:], uint32(recSize))
	binary.BigEndian.PutUint64(rg.buf[rg.w+lengthFieldSize:], uint64(ts.UnixNano()))
	copy(rg.buf[rg.w+headerSize:], payload)
	rg.buf[rg.w+headerSize+len(payload)] = 0
	rg.w += recSize
	rg.full = rg.w == rg.r
}

func (rg *Ring) writeSentinelLocked() {
	n := rg.cap - rg.w
	if n > lengthFieldSize {
		n = lengthFieldSize
	}
	for i := 0; i < n; i++ {
		rg.buf[rg.w+i] = 0
	}
}

// evictOneLocked advances R past the oldest record, freeing its bytes.
func (rg *Ring) evictOneLocked() {
	rg.full = false
	if rg.cap-rg.r < lengthFieldSize {
		// Not even room for a length field before the physical end: the
		// same "nothing more here" signal a full zero sentinel gives.
		rg.r = 0
		return
	}
	length := binary.BigEndian.Uint32(rg.buf[rg.r:])
	if length == 0 {
		rg.r = 0
		return
	}
	rg.r += int(length)
}

// Read returns every live record, oldest first, without consuming them.
func (rg *Ring) Read() []Record {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	var out []Record
	if rg.r > rg.w || (rg.full && rg.r == rg.w) {
		out = append(out, rg.readSpanLocked(rg.r, rg.cap)...)
		out = append(out, rg.readSpanLocked(0, rg.w)...)
		return out
	}
	return rg.readSpanLocked(rg.r, rg.w)
}

func (rg *Ring) readSpanLocked(from, to int) []Record {
	var out []Record
	pos := from
	for pos < to {
		if to-pos < lengthFieldSize {
			// Too little room left for a length field: the short
			// sentinel writeSentinelLocked leaves when less than four
			// bytes remain before the physical end.
			break
		}
		length := binary.BigEndian.Uint32(rg.buf[pos:])
		if length == 0 {
			break
		}
		ts := time.Unix(0, int64(binary.BigEndian.Uint64(rg.buf[pos+lengthFieldSize:])))
		payloadLen := int(length) - headerSize - 1
		payload := make([]byte, payloadLen)
		copy(payload, rg.buf[pos+headerSize:pos+headerSize+payloadLen])
		out = append(out, Record{Timestamp: ts, Payload: payload})
		pos += int(length)
	}
	return out
}

// Clear resets both cursors and zeroes the buffer.
func (rg *Ring) Clear() {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	for i := range rg.buf {
		rg.buf[i] = 0
	}
	rg.w, rg.r = 0, 0
	rg.full = false
}

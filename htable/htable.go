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

// Package htable implements the djb2-hashed, open-chained mapping used by
// the typed value store.
//
// Grounded on original_source/includes/iw_htable.h, iw_hash.h and their .c
// counterparts: the bucket array is indexed by `hash % size`, new entries
// are pushed to the front of their bucket's chain, and both table-order and
// comparator-ordered traversal are driven off the last hash returned rather
// than an opaque cursor, so iteration survives concurrent Get/Insert calls
// on other buckets (not on the same bucket).
package htable

import "sync"

// HashFn computes a table key's hash. The zero value of Table uses Hash.
type HashFn func(key []byte) uint64

// Hash is the original djb2 hash: h0 = 5381, h(i) = h(i-1)*33 + byte(i).
func Hash(key []byte) uint64 {
	var h uint64 = 5381
	for _, c := range key {
		h = h*33 + uint64(c)
	}
	return h
}

type node struct {
	next *node
	hash uint64
	key  []byte
	data interface{}
}

// Table is a fixed-bucket-count, chained hash table keyed by byte slices.
// Safe for concurrent use.
type Table struct {
	mu         sync.RWMutex
	fn         HashFn
	buckets    []*node
	numElems   int
	collisions int
}

// New creates a Table with the given number of buckets. A nil fn uses Hash.
func New(size int, fn HashFn) *Table {
	if size <= 0 {
		size = 16
	}
	if fn == nil {
		fn = Hash
	}
	return &Table{fn: fn, buckets: make([]*node, size)}
}

func (t *Table) index(hash uint64) int {
	return int(hash % uint64(len(t.buckets)))
}

// Insert adds key/data, failing if the key is already present.
func (t *Table) Insert(key []byte, data interface{}) bool {
	return t.put(key, data, false)
}

// Replace adds key/data, overwriting any existing entry for key.
func (t *Table) Replace(key []byte, data interface{}) bool {
	return t.put(key, data, true)
}

func (t *Table) put(key []byte, data interface{}, overwrite bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	hash := t.fn(key)
	idx := t.index(hash)

	if overwrite {
		t.removeLocked(hash)
	} else {
		for cur := t.buckets[idx]; cur != nil; cur = cur.next {
			if cur.hash == hash {
				return false
			}
		}
	}
	if t.buckets[idx] != nil {
		t.collisions++
	}

	nn := &node{next: t.buckets[idx], hash: hash, key: append([]byte(nil), key...), data: data}
	t.buckets[idx] = nn
	t.numElems++
	return true
}

// Get returns the data stored under key, or nil, false if absent.
func (t *Table) Get(key []byte) (interface{}, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	hash := t.fn(key)
	for n := t.buckets[t.index(hash)]; n != nil; n = n.next {
		if n.hash == hash {
			return n.data, true
		}
	}
	return nil, false
}

// Remove removes and returns the entry for key, if any.
func (t *Table) Remove(key []byte) (interface{}, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeLocked(t.fn(key))
}

func (t *Table) removeLocked(hash uint64) (interface{}, bool) {
	idx := t.index(hash)
	n := t.buckets[idx]
	if n == nil {
		return nil, false
	}

	if n.hash == hash {
		t.buckets[idx] = n.next
		t.numElems--
		if n.next != nil {
			t.collisions--
		}
		return n.data, true
	}

	prev := n
	for cur := n.next; cur != nil; cur = cur.next {
		if cur.hash == hash {
			prev.next = cur.next
			t.numElems--
			t.collisions--
			return cur.data, true
		}
		prev = cur
	}
	return nil, false
}

// Delete removes the entry for key and reports whether one was found.
func (t *Table) Delete(key []byte) bool {
	_, ok := t.Remove(key)
	return ok
}

// Len returns the number of elements currently stored.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.numElems
}

// Report summarizes the table's shape for the `memory`/debug commands.
type Report struct {
	Buckets    int
	Elements   int
	Collisions int
}

// Report returns a snapshot of the table's size and collision count.
func (t *Table) Report() Report {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Report{Buckets: len(t.buckets), Elements: t.numElems, Collisions: t.collisions}
}

// GetFirst returns the first element found in bucket order along with the
// cursor hash to pass to GetNext.
func (t *Table) GetFirst() (interface{}, uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.firstNodeLocked()
	if n == nil {
		return nil, 0, false
	}
	return n.data, n.hash, true
}

// GetNext returns the element following the one with the given cursor hash,
// in bucket order.
func (t *Table) GetNext(cursor uint64) (interface{}, uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.nextNodeLocked(cursor)
	if n == nil {
		return nil, 0, false
	}
	return n.data, n.hash, true
}

func (t *Table) firstNodeLocked() *node {
	for _, b := range t.buckets {
		if b != nil {
			return b
		}
	}
	return nil
}

func (t *Table) nextNodeLocked(cursor uint64) *node {
	foundLast := false
	for _, b := range t.buckets {
		for n := b; n != nil; n = n.next {
			if foundLast {
				return n
			}
			if n.hash == cursor {
				foundLast = true
			}
		}
	}
	return nil
}

func (t *Table) findNodeLocked(cursor uint64) *node {
	for _, b := range t.buckets {
		for n := b; n != nil; n = n.next {
			if n.hash == cursor {
				return n
			}
		}
	}
	return nil
}

// Compare orders two elements' data; same contract as the original
// comparator: <0 if a<b, 0 if equal, >0 if a>b.
type Compare func(a, b interface{}) int

// GetFirstOrdered returns the element that is minimal under cmp.
func (t *Table) GetFirstOrdered(cmp Compare) (interface{}, uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cur := t.firstNodeLocked()
	if cur == nil {
		return nil, 0, false
	}
	cursor := cur.hash
	for {
		next := t.nextNodeLocked(cursor)
		if next == nil {
			break
		}
		cursor = next.hash
		if cmp(cur.data, next.data) > 0 {
			cur = next
		}
	}
	return cur.data, cur.hash, true
}

// GetNextOrdered returns the lowest element, under cmp, that sorts strictly
// after the element previously returned at cursor. The element at cursor
// itself is skipped, matching the Open Question decision recorded in
// SPEC_FULL.md: a repeated value equal to the cursor's would otherwise be
// returned forever.
func (t *Table) GetNextOrdered(cmp Compare, cursor uint64) (interface{}, uint64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	prev := t.findNodeLocked(cursor)
	if prev == nil {
		return nil, 0, false
	}

	var cur *node
	for n := t.firstNodeLocked(); n != nil; {
		if cmp(prev.data, n.data) < 0 && n.hash != cursor {
			if cur == nil || cmp(cur.data, n.data) > 0 {
				cur = n
			}
		}
		n = t.nextNodeLocked(n.hash)
	}
	if cur == nil {
		return nil, 0, false
	}
	return cur.data, cur.hash, true
}

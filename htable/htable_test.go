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

package htable_test

import (
	"sort"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/htable"
)

func TestHtable(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "htable suite")
}

var _ = Describe("djb2 Hash", func() {
	It("matches the known reference value for an empty key", func() {
		Expect(htable.Hash(nil)).To(Equal(uint64(5381)))
	})

	It("is deterministic across calls", func() {
		Expect(htable.Hash([]byte("abc"))).To(Equal(htable.Hash([]byte("abc"))))
	})
})

var _ = Describe("Table", func() {
	var t *htable.Table

	BeforeEach(func() {
		t = htable.New(4, nil)
	})

	It("inserts and gets a value back", func() {
		Expect(t.Insert([]byte("a"), 1)).To(BeTrue())
		v, ok := t.Get([]byte("a"))
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))
	})

	It("fails to insert a duplicate key", func() {
		Expect(t.Insert([]byte("a"), 1)).To(BeTrue())
		Expect(t.Insert([]byte("a"), 2)).To(BeFalse())
	})

	It("replace overwrites an existing key", func() {
		Expect(t.Insert([]byte("a"), 1)).To(BeTrue())
		Expect(t.Replace([]byte("a"), 2)).To(BeTrue())
		v, _ := t.Get([]byte("a"))
		Expect(v).To(Equal(2))
		Expect(t.Len()).To(Equal(1))
	})

	It("removes a value and it is no longer gettable", func() {
		Expect(t.Insert([]byte("a"), 1)).To(BeTrue())
		v, ok := t.Remove([]byte("a"))
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))
		_, ok = t.Get([]byte("a"))
		Expect(ok).To(BeFalse())
	})

	It("counts collisions when two keys share a bucket", func() {
		t = htable.New(1, nil)
		Expect(t.Insert([]byte("a"), 1)).To(BeTrue())
		Expect(t.Insert([]byte("b"), 2)).To(BeTrue())
		Expect(t.Report().Collisions).To(Equal(1))
	})

	It("iterates every inserted element exactly once in table order", func() {
		keys := []string{"a", "b", "c", "d", "e"}
		for i, k := range keys {
			Expect(t.Insert([]byte(k), i)).To(BeTrue())
		}

		var seen []int
		v, cursor, ok := t.GetFirst()
		for ok {
			seen = append(seen, v.(int))
			v, cursor, ok = t.GetNext(cursor)
		}
		sort.Ints(seen)
		Expect(seen).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("iterates in comparator order without repeating the cursor element", func() {
		values := []int{5, 3, 1, 4, 2}
		for i, v := range values {
			Expect(t.Insert([]byte{byte('a' + i)}, v)).To(BeTrue())
		}
		cmp := func(a, b interface{}) int { return a.(int) - b.(int) }

		var ordered []int
		v, cursor, ok := t.GetFirstOrdered(cmp)
		for ok {
			ordered = append(ordered, v.(int))
			v, cursor, ok = t.GetNextOrdered(cmp, cursor)
		}
		Expect(ordered).To(Equal([]int{1, 2, 3, 4, 5}))
	})
})

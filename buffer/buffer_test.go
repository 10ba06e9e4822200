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

package buffer_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/buffer"
	"github.com/instaworks/instaworks/internal/opserr"
)

func TestBuffer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "buffer suite")
}

var _ = Describe("Buffer", func() {
	It("appends and reads back contiguous bytes", func() {
		b := buffer.New(0, 0)
		Expect(b.Append([]byte("hello"))).To(Succeed())
		Expect(b.Append([]byte(" world"))).To(Succeed())
		Expect(string(b.Bytes())).To(Equal("hello world"))
		Expect(b.Len()).To(Equal(11))
	})

	It("grows the backing array across the initial capacity", func() {
		b := buffer.New(2, 0)
		Expect(b.Cap()).To(Equal(2))
		Expect(b.Append([]byte("abcdefghij"))).To(Succeed())
		Expect(b.Cap()).To(BeNumerically(">=", 10))
	})

	It("rejects a reserve that would exceed the hard maximum", func() {
		b := buffer.New(0, 8)
		Expect(b.Append([]byte("12345678"))).To(Succeed())
		err := b.Append([]byte("9"))
		Expect(err).To(HaveOccurred())
		Expect(opserr.Is(err, opserr.KindResourceExhaustion)).To(BeTrue())
	})

	It("supports reserve/commit with a partial write", func() {
		b := buffer.New(0, 0)
		dst, err := b.Reserve(16)
		Expect(err).NotTo(HaveOccurred())
		n := copy(dst, "partial")
		b.Commit(n)
		Expect(string(b.Bytes())).To(Equal("partial"))
		Expect(b.Remaining()).To(Equal(b.Cap() - n))
	})

	It("drops the front and compacts the remainder to offset zero", func() {
		b := buffer.New(0, 0)
		Expect(b.Append([]byte("0123456789"))).To(Succeed())
		b.DropFront(4)
		Expect(string(b.Bytes())).To(Equal("456789"))
	})

	It("drop_front beyond the live length empties the buffer", func() {
		b := buffer.New(0, 0)
		Expect(b.Append([]byte("abc"))).To(Succeed())
		b.DropFront(100)
		Expect(b.Len()).To(Equal(0))
	})

	It("reset empties without releasing capacity", func() {
		b := buffer.New(0, 0)
		Expect(b.Append([]byte("abcdef"))).To(Succeed())
		cap0 := b.Cap()
		b.Reset()
		Expect(b.Len()).To(Equal(0))
		Expect(b.Cap()).To(Equal(cap0))
	})
})

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

package valstore_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/internal/opserr"
	"github.com/instaworks/instaworks/valstore"
)

func TestValstore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "valstore suite")
}

var _ = Describe("free-form Store", func() {
	It("accepts any name", func() {
		s := valstore.New(false)
		Expect(s.SetString("anything", "goes")).To(Succeed())
		v, ok := s.Get("anything")
		Expect(ok).To(BeTrue())
		Expect(v.String).To(Equal("goes"))
	})

	It("allows a later set to change a value's type and logs it", func() {
		s := valstore.New(false)
		var logged []string
		s.SetDebugLog(func(format string, args ...interface{}) { logged = append(logged, format) })

		Expect(s.SetString("mode", "1")).To(Succeed())
		Expect(s.SetNumber("mode", 42)).To(Succeed())

		v, _ := s.Get("mode")
		Expect(v.Type).To(Equal(valstore.TypeNumber))
		Expect(v.Number).To(Equal(42))
		Expect(logged).NotTo(BeEmpty())
	})
})

var _ = Describe("controlled Store", func() {
	It("rejects an undeclared name", func() {
		s := valstore.New(true)
		err := s.SetString("undeclared", "x")
		Expect(opserr.Is(err, opserr.KindNoSuchValue)).To(BeTrue())
	})

	It("rejects a type mismatch against the declared criterion", func() {
		s := valstore.New(true)
		s.AddName("port", "a port number", valstore.TypeNumber, true)
		err := s.SetString("port", "not-a-number")
		Expect(opserr.Is(err, opserr.KindIncorrectType)).To(BeTrue())
	})

	It("validates a number against the port regexp shorthand", func() {
		s := valstore.New(true)
		Expect(s.AddNameRegexp("port", "0-65535", valstore.TypeNumber, valstore.CritPort, true)).To(Succeed())

		Expect(s.SetNumber("port", 8080)).To(Succeed())

		err := s.SetNumber("port", 700000)
		Expect(opserr.Is(err, opserr.KindFailedRegexp)).To(BeTrue())
	})

	It("validates via a predicate callback", func() {
		s := valstore.New(true)
		even := func(name string, v *valstore.Value) bool { return v.Number%2 == 0 }
		s.AddNameCallback("evennum", "must be even", valstore.TypeNumber, even, false)

		Expect(s.SetNumber("evennum", 4)).To(Succeed())
		err := s.SetNumber("evennum", 5)
		Expect(opserr.Is(err, opserr.KindFailedCallback)).To(BeTrue())
	})

	It("reports persistence per declared name", func() {
		s := valstore.New(true)
		s.AddName("saved", "", valstore.TypeString, true)
		s.AddName("ephemeral", "", valstore.TypeString, false)
		Expect(s.GetPersist("saved")).To(BeTrue())
		Expect(s.GetPersist("ephemeral")).To(BeFalse())
	})
})

var _ = Describe("iteration", func() {
	It("visits every stored value exactly once", func() {
		s := valstore.New(false)
		Expect(s.SetString("a", "1")).To(Succeed())
		Expect(s.SetString("b", "2")).To(Succeed())
		Expect(s.SetString("c", "3")).To(Succeed())

		count := 0
		v, cursor, ok := s.GetFirst()
		for ok {
			count++
			v, cursor, ok = s.GetNext(cursor)
		}
		_ = v
		Expect(count).To(Equal(3))
	})
})

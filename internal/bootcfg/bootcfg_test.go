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

package bootcfg_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/internal/bootcfg"
	"github.com/instaworks/instaworks/valstore"
)

func TestBootcfg(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "bootcfg suite")
}

var _ = Describe("Load", func() {
	It("applies known keys from a nested YAML file and ignores unknown ones", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte("server:\n  host: 127.0.0.1\n  port: \"9090\"\nunknown:\n  stray: true\n"), 0644)).To(Succeed())

		store := valstore.New(false)
		Expect(store.Set(valstore.NewString("server.host", "0.0.0.0"))).To(Succeed())
		Expect(store.Set(valstore.NewNumber("server.port", 8080))).To(Succeed())

		Expect(bootcfg.Load(path, store)).To(Succeed())

		host, ok := store.Get("server.host")
		Expect(ok).To(BeTrue())
		Expect(host.String).To(Equal("127.0.0.1"))

		port, ok := store.Get("server.port")
		Expect(ok).To(BeTrue())
		Expect(port.Number).To(Equal(9090))

		_, ok = store.Get("unknown.stray")
		Expect(ok).To(BeFalse())
	})

	It("fails on an unparsable file", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte("not: [valid yaml"), 0644)).To(Succeed())

		store := valstore.New(false)
		Expect(bootcfg.Load(path, store)).NotTo(Succeed())
	})
})

var _ = Describe("Save", func() {
	It("writes only persisted values, round-tripping through Load", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "out.yaml")

		store := valstore.New(true)
		Expect(store.AddName("server.host", "", valstore.TypeString, true)).To(BeTrue())
		Expect(store.AddName("server.debug", "", valstore.TypeString, false)).To(BeTrue())
		Expect(store.SetString("server.host", "10.0.0.1")).To(Succeed())
		Expect(store.SetString("server.debug", "on")).To(Succeed())

		Expect(bootcfg.Save(path, store)).To(Succeed())

		reloaded := valstore.New(false)
		Expect(reloaded.Set(valstore.NewString("server.host", "unset"))).To(Succeed())
		Expect(reloaded.Set(valstore.NewString("server.debug", "unset"))).To(Succeed())
		Expect(bootcfg.Load(path, reloaded)).To(Succeed())

		host, _ := reloaded.Get("server.host")
		Expect(host.String).To(Equal("10.0.0.1"))

		// server.debug was never persisted, so Save never wrote it --
		// it survives reload with its pre-existing sentinel value.
		debug, _ := reloaded.Get("server.debug")
		Expect(debug.String).To(Equal("unset"))
	})
})

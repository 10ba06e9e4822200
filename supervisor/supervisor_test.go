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

package supervisor_test

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/internal/oplog"
	"github.com/instaworks/instaworks/supervisor"
	"github.com/instaworks/instaworks/valstore"
	"github.com/instaworks/instaworks/version"
)

func TestSupervisor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "supervisor suite")
}

func newSupervisor(enableWeb bool) *supervisor.Supervisor {
	sup, err := supervisor.New(context.Background(), supervisor.Config{
		CommandPort: 0,
		EnableWeb:   enableWeb,
		WebPort:     0,
		LogLevel:    oplog.InfoLevel,
		AllowQuit:   true,
		Version:     version.Info{Major: 1, Minor: 0},
		Seed: func(s *valstore.Store) {
			s.AddName("greeting", "test seed value", valstore.TypeString, false)
			Expect(s.Set(valstore.NewString("greeting", "hello"))).To(Succeed())
		},
	})
	Expect(err).NotTo(HaveOccurred())
	return sup
}

var _ = Describe("Supervisor", func() {
	It("starts every component and serves a command over the loopback command server", func() {
		sup := newSupervisor(false)
		defer sup.Shutdown()

		conn, err := net.Dial("tcp", sup.CommandAddr().String())
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("iwver\r\n"))
		Expect(err).NotTo(HaveOccurred())

		reply, err := bufio.NewReader(conn).ReadBytes(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(reply)).To(ContainSubstring("instaworks"))
	})

	It("seeds the configuration store before anything else starts", func() {
		sup := newSupervisor(false)
		defer sup.Shutdown()

		v, ok := sup.Config.Get("greeting")
		Expect(ok).To(BeTrue())
		Expect(v.String).To(Equal("hello"))
	})

	It("cancels its context and joins client threads on Shutdown", func() {
		sup := newSupervisor(false)
		ctx := sup.Context()

		done := make(chan struct{})
		sup.Threads.Spawn(ctx, "probe-client", true, func(ctx context.Context) {
			<-ctx.Done()
			close(done)
		})

		sup.Shutdown()

		select {
		case <-done:
		case <-time.After(time.Second):
			Fail("client thread was not joined by Shutdown")
		}
		Eventually(ctx.Done(), time.Second).Should(BeClosed())
	})
})

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

package threadreg_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/threadreg"
)

func TestThreadreg(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "threadreg suite")
}

var _ = Describe("Registry", func() {
	It("registers the main thread and resolves self through its context", func() {
		r := threadreg.New()
		ctx, h := r.RegisterMain(context.Background(), "main")
		Expect(threadreg.HandleFromContext(ctx)).To(Equal(h))
		Expect(r.GetLog(ctx, 0)).To(BeTrue())
	})

	It("spawns a thread and removes its record once it returns", func() {
		r := threadreg.New()
		done := make(chan struct{})
		r.Spawn(context.Background(), "worker", false, func(ctx context.Context) {
			close(done)
		})
		Eventually(done, time.Second).Should(BeClosed())
		Eventually(func() int { return len(r.Snapshot()) }, time.Second).Should(Equal(0))
	})

	It("set_log_all toggles every thread's flag", func() {
		r := threadreg.New()
		ctx, _ := r.RegisterMain(context.Background(), "main")
		r.SetLogAll(false)
		Expect(r.GetLog(ctx, 0)).To(BeFalse())
		r.SetLogAll(true)
		Expect(r.GetLog(ctx, 0)).To(BeTrue())
	})

	It("wait_all blocks until every client thread has returned", func() {
		r := threadreg.New()
		release := make(chan struct{})
		r.Spawn(context.Background(), "client-1", true, func(ctx context.Context) {
			<-release
		})

		doneWaiting := make(chan struct{})
		go func() {
			r.WaitAll()
			close(doneWaiting)
		}()

		Consistently(doneWaiting, 100*time.Millisecond).ShouldNot(BeClosed())
		close(release)
		Eventually(doneWaiting, time.Second).Should(BeClosed())
	})

	It("records the awaited mutex id for the health loop to read", func() {
		r := threadreg.New()
		_, h := r.RegisterMain(context.Background(), "main")
		r.SetAwaitedMutex(h, 7)
		rec, ok := r.Get(h)
		Expect(ok).To(BeTrue())
		Expect(rec.AwaitedMutex).To(Equal(uint64(7)))
	})
})

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

package cmdserver_test

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/cmdserver"
	"github.com/instaworks/instaworks/command"
	"github.com/instaworks/instaworks/internal/oplog"
	"github.com/instaworks/instaworks/mutexreg"
	"github.com/instaworks/instaworks/threadreg"
	"github.com/instaworks/instaworks/valstore"
	"github.com/instaworks/instaworks/version"
)

func TestCmdServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "cmdserver suite")
}

func startServer() (*cmdserver.Server, int) {
	threads := threadreg.New()
	ctx, _ := threads.RegisterMain(context.Background(), "main")
	deps := command.Deps{
		Threads: threads,
		Mutexes: mutexreg.New(threads),
		Config:  valstore.New(false),
		Logger:  oplog.New(),
		Version: version.Info{Major: 0, Minor: 1},
	}
	root := command.NewRoot(deps)
	srv := cmdserver.New(root, threads, deps.Logger)
	port, err := srv.Listen(0)
	Expect(err).NotTo(HaveOccurred())
	srv.Serve(ctx)
	return srv, port
}

var _ = Describe("Server", func() {
	It("dispatches a command line and terminates the response with NUL", func() {
		srv, port := startServer()
		defer srv.Close()

		conn, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("iwver\r\n"))
		Expect(err).NotTo(HaveOccurred())

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		r := bufio.NewReader(conn)
		data, err := r.ReadBytes(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("instaworks"))
		Expect(data[len(data)-1]).To(Equal(byte(0)))
	})

	It("rejects a request that never produces CRLF within the buffer maximum", func() {
		threads := threadreg.New()
		ctx, _ := threads.RegisterMain(context.Background(), "main")
		deps := command.Deps{
			Threads: threads,
			Mutexes: mutexreg.New(threads),
			Config:  valstore.New(false),
			Logger:  oplog.New(),
		}
		root := command.NewRoot(deps)
		srv := cmdserver.New(root, threads, deps.Logger)
		port, err := srv.Listen(0)
		Expect(err).NotTo(HaveOccurred())
		srv.Serve(ctx)
		defer srv.Close()

		conn, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		junk := make([]byte, cmdserver.DefaultMaxRequest+64)
		for i := range junk {
			junk[i] = 'x'
		}
		conn.Write(junk)

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		r := bufio.NewReader(conn)
		data, err := r.ReadBytes(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{0}))
	})
})

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

package cmdclient_test

import (
	"bufio"
	"bytes"
	"net"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/cmdclient"
)

func TestCmdClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "cmdclient suite")
}

// fakeServer accepts one connection, reads one CRLF-terminated line, and
// replies with a canned response followed by the NUL sentinel.
func fakeServer(t *testing.T, response string) (port int, gotLine chan string) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	gotLine = make(chan string, 1)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		line, _ := r.ReadString('\n')
		gotLine <- line
		conn.Write(append([]byte(response), 0))
	}()

	return ln.Addr().(*net.TCPAddr).Port, gotLine
}

var _ = Describe("Run", func() {
	It("sends argv joined with spaces and CRLF, and stops at the NUL sentinel", func() {
		port, gotLine := fakeServer(GinkgoT(), "hello from server")
		var out bytes.Buffer

		err := cmdclient.Run(port, []string{"threads", "dump"}, &out)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("hello from server"))
		Expect(<-gotLine).To(Equal("threads dump\r\n"))
	})
})

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

// Package cmdserver implements the loopback command-line protocol server:
// one accept-loop framework thread, one request handled synchronously per
// connection.
//
// Grounded on spec.md 4.12 / original_source/includes/iw_cmd_srv.h: grow a
// byte buffer up to its maximum while searching for CRLF, dispatch the
// line through the command tree, write a single NUL byte as the
// end-of-response sentinel, sleep briefly before closing so the client
// (not the server) enters TIME_WAIT.
package cmdserver

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/instaworks/instaworks/buffer"
	"github.com/instaworks/instaworks/command"
	"github.com/instaworks/instaworks/internal/opserr"
	"github.com/instaworks/instaworks/internal/oplog"
	"github.com/instaworks/instaworks/threadreg"
)

// DefaultMaxRequest is the hard cap on one command line's buffered size,
// chosen generously for a loopback-only text protocol.
const DefaultMaxRequest = 4096

// preCloseDelay gives the client time to observe the NUL sentinel and
// initiate its own close before the server closes its side.
const preCloseDelay = 20 * time.Millisecond

// Server is the command server's listening state.
type Server struct {
	root       *command.Node
	threads    *threadreg.Registry
	log        oplog.Logger
	maxRequest int

	listener net.Listener
}

// New constructs a command server that dispatches accepted lines through
// root.
func New(root *command.Node, threads *threadreg.Registry, log oplog.Logger) *Server {
	return &Server{root: root, threads: threads, log: log, maxRequest: DefaultMaxRequest}
}

// Listen opens the loopback listener on port (0 picks an ephemeral port,
// useful in tests) without yet accepting connections.
func (s *Server) Listen(port int) (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		return 0, opserr.Wrap(opserr.KindTransport, err, "command server listen on port %d", port)
	}
	s.listener = ln
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// Serve spawns the accept-loop framework thread and returns immediately.
// The loop thread stops when the listener is closed via Close.
func (s *Server) Serve(ctx context.Context) {
	s.threads.Spawn(ctx, "cmdserver-accept", false, func(ctx context.Context) {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				return
			}
			s.handle(conn)
		}
	})
}

// Close stops the accept loop by closing the listener.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// Addr returns the bound listener address; callers typically use this to
// discover the ephemeral port chosen by Listen(0).
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// handle services exactly one request on conn, synchronously, then closes
// it, per spec.md 4.12's one-request-per-connection contract.
func (s *Server) handle(conn net.Conn) {
	correlation := uuid.NewString()
	defer func() {
		time.Sleep(preCloseDelay)
		conn.Close()
	}()

	buf := buffer.New(256, s.maxRequest)
	line, ok := s.readLine(conn, buf)
	if !ok {
		s.log.Warning("command request rejected", oplog.Fields{"correlation": correlation})
		conn.Write([]byte{0})
		return
	}

	args := command.NewArgs(line)
	var out responseWriter
	command.Dispatch(s.root, &out, args)

	out.buf = append(out.buf, 0)
	conn.Write(out.buf)
}

// readLine grows buf by reading from conn up to its maximum, searching for
// CRLF after each read, and returns the line (without the CRLF) once
// found. Exceeding the maximum without finding CRLF is a rejection.
func (s *Server) readLine(conn net.Conn, buf *buffer.Buffer) (string, bool) {
	const readChunk = 256
	for {
		if idx := findCRLF(buf.Bytes()); idx >= 0 {
			return string(buf.Bytes()[:idx]), true
		}

		dst, err := buf.Reserve(readChunk)
		if err != nil {
			return "", false
		}
		n, err := conn.Read(dst)
		if n > 0 {
			buf.Commit(n)
		}
		if err != nil {
			return "", false
		}
	}
}

func findCRLF(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return i
		}
	}
	return -1
}

// responseWriter accumulates the dispatcher's output in memory so its
// total length can be written in one conn.Write alongside the sentinel.
type responseWriter struct {
	buf []byte
}

func (w *responseWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

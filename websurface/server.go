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

// Package websurface implements the loopback HTTP/1.1 surface: an accept
// loop feeding the incremental httpreq parser, a caller-supplied request
// handler, and the built-in diagnostic routes spec.md 4.14 names.
//
// Grounded on spec.md 4.14 / original_source/includes/iw_web_srv.h: one
// accept-loop framework thread, each connection's bytes fed as they
// arrive into the request parser until complete or error, then the
// handler callback produces an HTTP/1.1 response with Content-Length.
package websurface

import (
	"context"
	"net"
	"strconv"

	"github.com/instaworks/instaworks/httpreq"
	"github.com/instaworks/instaworks/internal/opserr"
	"github.com/instaworks/instaworks/threadreg"
)

// DefaultPort is the web surface's default loopback port.
const DefaultPort = 8080

// maxRequestBytes bounds one connection's accumulated request size; the
// surface is loopback-only and diagnostic, so this is generous rather
// than tight.
const maxRequestBytes = 1 << 20

// Handler produces a response for a fully-parsed request. buf is the
// request's backing buffer (index fields in req reference it); out is
// the connection to write the HTTP response to.
type Handler func(req *httpreq.Request, buf []byte, out net.Conn)

// Server is the web surface's listening state.
type Server struct {
	handler  Handler
	threads  *threadreg.Registry
	listener net.Listener
}

// New constructs a web surface dispatching complete requests to handler.
func New(handler Handler, threads *threadreg.Registry) *Server {
	return &Server{handler: handler, threads: threads}
}

// Listen opens the loopback listener on port (0 for an ephemeral port).
func (s *Server) Listen(port int) (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		return 0, opserr.Wrap(opserr.KindTransport, err, "web surface listen on port %d", port)
	}
	s.listener = ln
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// Serve spawns the accept-loop framework thread.
func (s *Server) Serve(ctx context.Context) {
	s.threads.Spawn(ctx, "websurface-accept", false, func(ctx context.Context) {
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				return
			}
			go s.handle(conn)
		}
	})
}

// Close stops the accept loop.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	var req httpreq.Request
	var data []byte
	chunk := make([]byte, 512)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)
			if len(data) > maxRequestBytes {
				httpreq.WriteResponse(conn, 413, "Request Entity Too Large", "text/plain", []byte("request too large"))
				return
			}
			switch req.Parse(data) {
			case httpreq.Complete:
				s.handler(&req, data, conn)
				return
			case httpreq.Error:
				httpreq.WriteResponse(conn, 400, "Bad Request", "text/plain", []byte("malformed request"))
				return
			}
		}
		if err != nil {
			return
		}
	}
}

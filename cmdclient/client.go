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

// Package cmdclient implements the loopback command-line protocol client
// used by the `instaworks` CLI's non-server invocation mode.
//
// Grounded on spec.md 4.13 / original_source/includes/iw_cmd_clnt.h: join
// argv with single spaces, append CRLF, write every byte received to
// standard output as it arrives, and close from the client side the
// instant a NUL sentinel byte is observed (so the client, not the server,
// enters TIME_WAIT).
package cmdclient

import (
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"github.com/instaworks/instaworks/internal/opserr"
)

// Run connects to the command server on loopback at port, sends argv
// joined with spaces and CRLF, and streams the response to out until the
// NUL sentinel (exclusive) is observed.
func Run(port int, argv []string, out io.Writer) error {
	conn, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		return opserr.Wrap(opserr.KindTransport, err, "command client dial port %d", port)
	}
	defer conn.Close()

	line := strings.Join(argv, " ") + "\r\n"
	if _, err := conn.Write([]byte(line)); err != nil {
		return opserr.Wrap(opserr.KindTransport, err, "command client write request")
	}

	w := colorableWriter(out)
	buf := make([]byte, 512)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if idx := indexNUL(chunk); idx >= 0 {
				fprintColored(w, chunk[:idx])
				return nil
			}
			fprintColored(w, chunk)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return opserr.Wrap(opserr.KindTransport, err, "command client read response")
		}
	}
}

// colorableWriter wraps out with go-colorable's ANSI translation when it
// is an *os.File (Windows consoles need the wrapper; a plain io.Writer,
// such as a test's bytes.Buffer, is used as-is).
func colorableWriter(out io.Writer) io.Writer {
	if f, ok := out.(*os.File); ok {
		return colorable.NewColorable(f)
	}
	return out
}

func indexNUL(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

func fprintColored(w io.Writer, b []byte) {
	color.New().Fprint(w, string(b))
}

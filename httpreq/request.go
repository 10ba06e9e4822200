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

// Package httpreq implements the incremental, restartable, zero-copy
// HTTP/1.1 request parser that feeds the web surface.
//
// Grounded on spec.md 4.11 (original_source/includes/iw_web_req.h covers
// only the request struct's field names, not the phase algorithm, which
// is specified directly in spec.md and implemented here against it): a
// Request remembers its own parse_point and phase so Parse can be called
// again each time the caller appends more bytes, resuming exactly where
// it left off, and always produces the same final result regardless of
// how the input was fragmented across calls.
package httpreq

import "github.com/instaworks/instaworks/parse"

// Phase is the parser's current stage.
type Phase int

const (
	PhaseRequestLine Phase = iota
	PhaseHeaders
	PhaseBody
	PhaseComplete
	PhaseError
)

// Outcome is what one Parse call accomplished.
type Outcome int

const (
	Incomplete Outcome = iota
	Complete
	Error
)

// Method is the closed set of HTTP methods this parser recognizes.
type Method int

const (
	MethodUnknown Method = iota
	MethodGET
	MethodHEAD
	MethodPOST
	MethodPUT
	MethodDELETE
	MethodTRACE
	MethodCONNECT
)

var methodNames = map[string]Method{
	"GET": MethodGET, "HEAD": MethodHEAD, "POST": MethodPOST,
	"PUT": MethodPUT, "DELETE": MethodDELETE, "TRACE": MethodTRACE,
	"CONNECT": MethodCONNECT,
}

func (m Method) String() string {
	for name, v := range methodNames {
		if v == m {
			return name
		}
	}
	return "UNKNOWN"
}

// Header is one parsed header line: raw index slices into the request's
// buffer, left undecoded (no URL-encoding applies to headers).
type Header struct {
	Name  parse.Index
	Value parse.Index
}

// Param is one query-string or form-body parameter. Its Value stays as a
// raw, URL-encoded index; call DecodeValue to materialize the owned,
// decoded string on demand, per spec.md 4.11.
type Param struct {
	Name  parse.Index
	Value parse.Index
	// HasValue distinguishes a bare "name" token (no "=") from "name=",
	// which both parse to an empty raw Value index.
	HasValue bool
}

// Request holds parser state across incremental Parse calls. The zero
// value is ready to use.
type Request struct {
	phase      Phase
	parsePoint int

	Method          Method
	URI             parse.Index
	Path            parse.Index
	Query           []Param
	ProtocolVersion parse.Index

	Headers       []Header
	ContentLength int
	Content       parse.Index
	Params        []Param // query parameters followed by any form-urlencoded body parameters.

	Complete bool
}

// Phase returns the request's current parse phase.
func (r *Request) Phase() Phase { return r.phase }

// ParsePoint returns the byte offset the next Parse call will resume at.
func (r *Request) ParsePoint() int { return r.parsePoint }

// HeaderValue returns the raw (undecoded) value of the first header
// matching name, case-insensitively.
func (r *Request) HeaderValue(buf []byte, name string) (parse.Index, bool) {
	for _, h := range r.Headers {
		if parse.CaseCmp(name, buf, h.Name) {
			return h.Value, true
		}
	}
	return parse.Index{}, false
}

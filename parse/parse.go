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

// Package parse implements index-based, non-copying token scanning over a
// byte range. It is the primitive the HTTP/1.1 parser builds on; it never
// allocates and never requires NUL termination.
//
// Grounded on original_source/includes/iw_parse.h: the same four token
// primitives (find_token, is_token, read_to_token, cmp/casecmp) operating
// on an offset that the caller threads through successive calls, so parsing
// can restart wherever it left off when a buffer fills incrementally.
package parse

import "bytes"

// Tokens used throughout the HTTP and command protocols, named as in the
// original header.
const (
	CRLF      = "\r\n"
	Space     = " "
	Colon     = ":"
	Query     = "?"
	Equal     = "="
	Ampersand = "&"
)

// Result is the outcome of a parse primitive.
type Result int

const (
	Match Result = iota
	NoMatch
	Error
)

// Index marks a value's location within a buffer: [Start, Start+Len).
type Index struct {
	Start int
	Len   int
}

// Slice returns the referenced region of buf. Callers must not retain the
// returned slice past the buffer's next mutation.
func (i Index) Slice(buf []byte) []byte {
	if i.Len <= 0 {
		return nil
	}
	return buf[i.Start : i.Start+i.Len]
}

// FindToken advances *offset past the next occurrence of token, leaving
// *offset pointing just after it. NoMatch leaves *offset unchanged.
func FindToken(buf []byte, offset *int, token string) Result {
	if *offset > len(buf) {
		return Error
	}
	idx := bytes.Index(buf[*offset:], []byte(token))
	if idx < 0 {
		return NoMatch
	}
	*offset += idx + len(token)
	return Match
}

// IsToken reports whether the bytes at *offset are exactly token; if so,
// *offset is advanced past it.
func IsToken(buf []byte, offset *int, token string) Result {
	if *offset > len(buf) {
		return Error
	}
	rem := buf[*offset:]
	if len(rem) < len(token) {
		return NoMatch
	}
	if !bytes.Equal(rem[:len(token)], []byte(token)) {
		return NoMatch
	}
	*offset += len(token)
	return Match
}

// ReadToToken scans from *offset for the next occurrence of token, returns
// the span before it (optionally trimmed of surrounding whitespace) in
// index, and advances *offset past the token. NoMatch is returned, and
// *offset left unchanged, if token does not occur in the remainder.
func ReadToToken(buf []byte, offset *int, token string, trim bool, index *Index) Result {
	if *offset > len(buf) {
		return Error
	}
	start := *offset
	idx := bytes.Index(buf[start:], []byte(token))
	if idx < 0 {
		return NoMatch
	}

	valStart := start
	valEnd := start + idx

	if trim {
		for valStart < valEnd && isSpace(buf[valStart]) {
			valStart++
		}
		for valEnd > valStart && isSpace(buf[valEnd-1]) {
			valEnd--
		}
	}

	index.Start = valStart
	index.Len = valEnd - valStart
	*offset = start + idx + len(token)
	return Match
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// Cmp reports whether index's slice of buf equals compare, byte for byte.
func Cmp(compare string, buf []byte, index Index) bool {
	return string(index.Slice(buf)) == compare
}

// CaseCmp reports whether index's slice of buf equals compare, ignoring
// ASCII case.
func CaseCmp(compare string, buf []byte, index Index) bool {
	return bytes.EqualFold(index.Slice(buf), []byte(compare))
}

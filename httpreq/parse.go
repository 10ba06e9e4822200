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

package httpreq

import (
	"strconv"

	"github.com/instaworks/instaworks/parse"
)

// Parse resumes parsing buf (the full, possibly still-growing request
// buffer) from r.parsePoint. It returns Incomplete if buf does not yet
// hold enough bytes to finish the current phase, Complete once the whole
// request (headers and any body) has been consumed, or Error on a
// malformed request line, header line, or Content-Length value.
//
// Parse never copies buf and never requires it to be NUL-terminated; it
// is safe to call again after the caller appends more bytes to buf, as
// long as no bytes before r.parsePoint have shifted position (buffer
// growth is fine; buffer.DropFront is not, until the request completes).
func (r *Request) Parse(buf []byte) Outcome {
	if r.phase == PhaseComplete {
		return Complete
	}
	if r.phase == PhaseError {
		return Error
	}

	for {
		switch r.phase {
		case PhaseRequestLine:
			switch r.parseRequestLine(buf) {
			case parse.Match:
				r.phase = PhaseHeaders
			case parse.NoMatch:
				return Incomplete
			default:
				r.phase = PhaseError
				return Error
			}

		case PhaseHeaders:
			res := r.parseHeaderLine(buf)
			switch res {
			case parse.Match:
				// one more header consumed; loop for the next line.
			case parse.NoMatch:
				return Incomplete
			case headerSectionDone:
				if !r.startBody(buf) {
					r.phase = PhaseError
					return Error
				}
				r.phase = PhaseBody
			default:
				r.phase = PhaseError
				return Error
			}

		case PhaseBody:
			if !r.haveFullBody(buf) {
				return Incomplete
			}
			r.parsePoint += r.ContentLength
			r.parseBodyParams(buf)
			r.phase = PhaseComplete
			r.Complete = true
			return Complete
		}
	}
}

// headerSectionDone is a sentinel parse.Result meaning "the blank line
// that ends the header block was found", distinct from parse.Match
// (another header line was found) and parse.NoMatch (need more bytes).
const headerSectionDone = parse.Result(100)

func (r *Request) parseRequestLine(buf []byte) parse.Result {
	offset := r.parsePoint

	var methodIdx parse.Index
	if res := parse.ReadToToken(buf, &offset, parse.Space, false, &methodIdx); res != parse.Match {
		return res
	}
	method, ok := methodNames[string(methodIdx.Slice(buf))]
	if !ok {
		return parse.Error
	}

	var uriIdx parse.Index
	if res := parse.ReadToToken(buf, &offset, parse.Space, false, &uriIdx); res != parse.Match {
		return res
	}

	var versionIdx parse.Index
	if res := parse.ReadToToken(buf, &offset, parse.CRLF, false, &versionIdx); res != parse.Match {
		return res
	}

	r.Method = method
	r.URI = uriIdx
	r.ProtocolVersion = versionIdx
	r.splitURI(buf, uriIdx)
	r.parsePoint = offset
	return parse.Match
}

// splitURI separates the path from the query string and parses the
// query string's name[=value] pairs into r.Query, per spec.md 4.11.
func (r *Request) splitURI(buf []byte, uri parse.Index) {
	raw := uri.Slice(buf)
	qpos := -1
	for i, b := range raw {
		if b == '?' {
			qpos = i
			break
		}
	}
	if qpos < 0 {
		r.Path = uri
		return
	}
	r.Path = parse.Index{Start: uri.Start, Len: qpos}
	queryStart := uri.Start + qpos + 1
	queryLen := uri.Len - qpos - 1
	r.Query = parsePairs(buf, queryStart, queryLen, parse.Ampersand)
}

// parsePairs splits the region [start, start+length) of buf on sep into
// name[=value] pairs, recording raw (undecoded) indices.
func parsePairs(buf []byte, start, length int, sep string) []Param {
	if length <= 0 {
		return nil
	}
	var params []Param
	offset := start
	end := start + length
	for offset < end {
		region := buf[offset:end]
		rel := indexOf(region, sep)
		var pairLen int
		if rel < 0 {
			pairLen = len(region)
		} else {
			pairLen = rel
		}
		pairStart := offset
		eq := indexOf(buf[pairStart:pairStart+pairLen], parse.Equal)
		var p Param
		if eq < 0 {
			p.Name = parse.Index{Start: pairStart, Len: pairLen}
			p.HasValue = false
		} else {
			p.Name = parse.Index{Start: pairStart, Len: eq}
			p.Value = parse.Index{Start: pairStart + eq + 1, Len: pairLen - eq - 1}
			p.HasValue = true
		}
		if p.Name.Len > 0 {
			params = append(params, p)
		}
		if rel < 0 {
			break
		}
		offset = pairStart + pairLen + len(sep)
	}
	return params
}

func indexOf(b []byte, token string) int {
	offset := 0
	if parse.FindToken(b, &offset, token) == parse.Match {
		return offset - len(token)
	}
	return -1
}

func (r *Request) parseHeaderLine(buf []byte) parse.Result {
	offset := r.parsePoint

	// A bare CRLF at the start of this line ends the header section.
	if parse.IsToken(buf, &offset, parse.CRLF) == parse.Match {
		r.parsePoint = offset
		return headerSectionDone
	}

	var nameIdx parse.Index
	if res := parse.ReadToToken(buf, &offset, parse.Colon, true, &nameIdx); res != parse.Match {
		return res
	}
	var valueIdx parse.Index
	if res := parse.ReadToToken(buf, &offset, parse.CRLF, true, &valueIdx); res != parse.Match {
		return res
	}

	r.Headers = append(r.Headers, Header{Name: nameIdx, Value: valueIdx})
	r.parsePoint = offset
	return parse.Match
}

// startBody resolves Content-Length (defaulting to zero when absent) now
// that the header section is complete. A present-but-malformed
// Content-Length header is a parse error.
func (r *Request) startBody(buf []byte) bool {
	valueIdx, ok := r.HeaderValue(buf, "Content-Length")
	if !ok {
		r.ContentLength = 0
		r.Content = parse.Index{Start: r.parsePoint, Len: 0}
		return true
	}
	n, err := strconv.Atoi(string(valueIdx.Slice(buf)))
	if err != nil || n < 0 {
		return false
	}
	r.ContentLength = n
	r.Content = parse.Index{Start: r.parsePoint, Len: n}
	return true
}

func (r *Request) haveFullBody(buf []byte) bool {
	return len(buf) >= r.parsePoint+r.ContentLength
}

// isFormEncoded reports whether the request declared an
// application/x-www-form-urlencoded body, the only body encoding whose
// content this parser interprets as name/value parameters.
func (r *Request) isFormEncoded(buf []byte) bool {
	ct, ok := r.HeaderValue(buf, "Content-Type")
	if !ok {
		return false
	}
	const want = "application/x-www-form-urlencoded"
	raw := ct.Slice(buf)
	if len(raw) < len(want) {
		return false
	}
	return string(raw[:len(want)]) == want
}

// parseBodyParams parses a form-urlencoded body and merges it with any
// URI query parameters already collected by splitURI, per spec.md's
// "body parameters are merged with URI query parameters" -- Params ends
// up holding the combined list callers like the web surface's /config
// handler consult, while Query keeps the query-only view.
func (r *Request) parseBodyParams(buf []byte) {
	if r.ContentLength == 0 || !r.isFormEncoded(buf) {
		r.Params = r.Query
		return
	}
	body := parsePairs(buf, r.Content.Start, r.Content.Len, parse.Ampersand)
	r.Params = append(append([]Param{}, r.Query...), body...)
}

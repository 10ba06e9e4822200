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

import "github.com/instaworks/instaworks/parse"

// DecodeValue materializes the owned, decoded string for a query or body
// parameter: %XX becomes the byte it encodes, + becomes space. Decoding
// happens here, on demand, rather than during Parse, per spec.md 4.11.
func (p Param) DecodeValue(buf []byte) string {
	if !p.HasValue {
		return ""
	}
	return decodeURLValue(p.Value.Slice(buf))
}

// DecodeName materializes the owned, decoded parameter name.
func (p Param) DecodeName(buf []byte) string {
	return decodeURLValue(p.Name.Slice(buf))
}

func decodeURLValue(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '+':
			out = append(out, ' ')
		case '%':
			if i+2 < len(raw) {
				if hi, ok := hexDigit(raw[i+1]); ok {
					if lo, ok := hexDigit(raw[i+2]); ok {
						out = append(out, hi<<4|lo)
						i += 2
						continue
					}
				}
			}
			out = append(out, raw[i])
		default:
			out = append(out, raw[i])
		}
	}
	return string(out)
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// LookupQuery returns the decoded value of the first query parameter
// named name, case-sensitively (query names are not header tokens).
func (r *Request) LookupQuery(buf []byte, name string) (string, bool) {
	return lookupParam(buf, r.Query, name)
}

// LookupParam returns the decoded value of the first parameter named name
// in Params, which holds the query parameters followed by any
// form-urlencoded body parameters.
func (r *Request) LookupParam(buf []byte, name string) (string, bool) {
	return lookupParam(buf, r.Params, name)
}

func lookupParam(buf []byte, params []Param, name string) (string, bool) {
	for _, p := range params {
		if parse.Cmp(name, buf, p.Name) {
			return p.DecodeValue(buf), true
		}
	}
	return "", false
}

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

package parse_test

import (
	"testing"

	"github.com/instaworks/instaworks/parse"
)

func TestFindToken(t *testing.T) {
	buf := []byte("GET /path HTTP/1.1\r\n")
	offset := 0
	if r := parse.FindToken(buf, &offset, parse.Space); r != parse.Match {
		t.Fatalf("expected Match, got %v", r)
	}
	if offset != 4 {
		t.Fatalf("expected offset 4, got %d", offset)
	}
}

func TestFindTokenNoMatch(t *testing.T) {
	buf := []byte("nothing here")
	offset := 0
	if r := parse.FindToken(buf, &offset, parse.CRLF); r != parse.NoMatch {
		t.Fatalf("expected NoMatch, got %v", r)
	}
	if offset != 0 {
		t.Fatalf("offset should be unchanged on NoMatch, got %d", offset)
	}
}

func TestIsToken(t *testing.T) {
	buf := []byte("HTTP/1.1 200 OK")
	offset := 8
	if r := parse.IsToken(buf, &offset, parse.Space); r != parse.Match {
		t.Fatalf("expected Match, got %v", r)
	}
	if offset != 9 {
		t.Fatalf("expected offset 9, got %d", offset)
	}
}

func TestReadToTokenTrim(t *testing.T) {
	buf := []byte("  Content-Length  :  42\r\n")
	offset := 0
	var idx parse.Index
	if r := parse.ReadToToken(buf, &offset, parse.Colon, true, &idx); r != parse.Match {
		t.Fatalf("expected Match, got %v", r)
	}
	if !parse.Cmp("Content-Length", buf, idx) {
		t.Fatalf("expected trimmed header name, got %q", idx.Slice(buf))
	}
}

func TestReadToTokenRestartable(t *testing.T) {
	buf := []byte("a:b:c:")
	offset := 0
	var idx parse.Index

	parse.ReadToToken(buf, &offset, parse.Colon, false, &idx)
	if !parse.Cmp("a", buf, idx) {
		t.Fatalf("first segment expected 'a', got %q", idx.Slice(buf))
	}

	parse.ReadToToken(buf, &offset, parse.Colon, false, &idx)
	if !parse.Cmp("b", buf, idx) {
		t.Fatalf("second segment expected 'b', got %q", idx.Slice(buf))
	}
}

func TestCaseCmp(t *testing.T) {
	buf := []byte("Content-Type")
	idx := parse.Index{Start: 0, Len: len(buf)}
	if !parse.CaseCmp("content-type", buf, idx) {
		t.Fatalf("expected case-insensitive match")
	}
}

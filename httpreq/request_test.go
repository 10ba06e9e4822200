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

package httpreq_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/instaworks/instaworks/httpreq"
)

func TestHTTPReq(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "httpreq suite")
}

const simpleGET = "GET /hello?name=world&flag HTTP/1.1\r\nHost: localhost\r\n\r\n"

var _ = Describe("Request.Parse", func() {
	It("parses a complete GET request line, query, and headers in one call", func() {
		buf := []byte(simpleGET)
		r := &httpreq.Request{}
		Expect(r.Parse(buf)).To(Equal(httpreq.Complete))
		Expect(r.Method).To(Equal(httpreq.MethodGET))
		Expect(string(r.Path.Slice(buf))).To(Equal("/hello"))

		name, ok := r.LookupQuery(buf, "name")
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("world"))

		_, ok = r.LookupQuery(buf, "flag")
		Expect(ok).To(BeTrue())

		v, ok := r.HeaderValue(buf, "host")
		Expect(ok).To(BeTrue())
		Expect(string(v.Slice(buf))).To(Equal("localhost"))
	})

	It("rejects an unrecognized method", func() {
		r := &httpreq.Request{}
		Expect(r.Parse([]byte("FOO / HTTP/1.1\r\n\r\n"))).To(Equal(httpreq.Error))
	})

	It("returns incomplete when fed one byte at a time, then completes identically to one shot", func() {
		full := []byte(simpleGET)
		r := &httpreq.Request{}
		var buf []byte
		for i := 0; i < len(full); i++ {
			buf = append(buf, full[i])
			out := r.Parse(buf)
			if i < len(full)-1 {
				Expect(out).To(Equal(httpreq.Incomplete))
			} else {
				Expect(out).To(Equal(httpreq.Complete))
			}
		}
		Expect(r.Method).To(Equal(httpreq.MethodGET))
		name, _ := r.LookupQuery(buf, "name")
		Expect(name).To(Equal("world"))
	})

	It("parses a form-urlencoded POST body", func() {
		body := "a=1&b=hello+world&c=%2Fpath"
		req := "POST /submit HTTP/1.1\r\n" +
			"Content-Type: application/x-www-form-urlencoded\r\n" +
			"Content-Length: " + itoa(len(body)) + "\r\n\r\n" + body
		buf := []byte(req)
		r := &httpreq.Request{}
		Expect(r.Parse(buf)).To(Equal(httpreq.Complete))

		b, ok := r.LookupParam(buf, "b")
		Expect(ok).To(BeTrue())
		Expect(b).To(Equal("hello world"))

		c, ok := r.LookupParam(buf, "c")
		Expect(ok).To(BeTrue())
		Expect(c).To(Equal("/path"))
	})

	It("reports incomplete while the body is still arriving", func() {
		req := "POST /x HTTP/1.1\r\nContent-Length: 5\r\n\r\nab"
		r := &httpreq.Request{}
		Expect(r.Parse([]byte(req))).To(Equal(httpreq.Incomplete))
	})

	It("rejects a malformed Content-Length", func() {
		req := "POST /x HTTP/1.1\r\nContent-Length: notanumber\r\n\r\n"
		r := &httpreq.Request{}
		Expect(r.Parse([]byte(req))).To(Equal(httpreq.Error))
	})

	It("treats a bodyless request's Content-Length as absent and zero", func() {
		r := &httpreq.Request{}
		Expect(r.Parse([]byte(simpleGET))).To(Equal(httpreq.Complete))
		Expect(r.ContentLength).To(Equal(0))
	})
})

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

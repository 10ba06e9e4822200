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
	"fmt"
	"io"
)

// WriteResponse writes a minimal HTTP/1.1 response with a Content-Length
// header, the shape spec.md 4.14 requires of the web surface's request
// handler callback.
func WriteResponse(out io.Writer, status int, statusText string, contentType string, body []byte) error {
	if _, err := fmt.Fprintf(out, "HTTP/1.1 %d %s\r\n", status, statusText); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Content-Type: %s\r\n", contentType); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Content-Length: %d\r\n", len(body)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Connection: close\r\n\r\n"); err != nil {
		return err
	}
	_, err := out.Write(body)
	return err
}

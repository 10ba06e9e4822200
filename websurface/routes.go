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

package websurface

import (
	"bytes"
	"fmt"
	"net"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/instaworks/instaworks/httpreq"
	"github.com/instaworks/instaworks/logring"
	"github.com/instaworks/instaworks/mutexreg"
	"github.com/instaworks/instaworks/threadreg"
	"github.com/instaworks/instaworks/valstore"
)

// Deps bundles the components the built-in diagnostic routes read or
// mutate, per spec.md 4.14's list: configuration store, log ring, thread
// and mutex registries, and memory accounting.
type Deps struct {
	Threads  *threadreg.Registry
	Mutexes  *mutexreg.Registry
	Ring     *logring.Ring
	Config   *valstore.Store
	Registry *prometheus.Registry
}

// NewRouter builds a Handler implementing the built-in routes: "/"
// (index), "/config" (GET renders the store, POST applies submitted
// values through set_existing), "/log" (the ring as HTML), "/threads",
// "/mutexes", "/memory", and "/metrics" (Prometheus exposition format).
func NewRouter(d Deps) Handler {
	return func(req *httpreq.Request, buf []byte, out net.Conn) {
		path := string(req.Path.Slice(buf))
		switch path {
		case "/", "":
			writeIndex(out)
		case "/config":
			if req.Method == httpreq.MethodPOST {
				applyConfigForm(d.Config, req, buf)
			}
			writeConfig(out, d.Config)
		case "/log":
			writeLog(out, d.Ring)
		case "/threads":
			writeThreads(out, d.Threads)
		case "/mutexes":
			writeMutexes(out, d.Mutexes)
		case "/memory":
			writeMemory(out)
		case "/metrics":
			writeMetrics(out, d.Registry)
		default:
			httpreq.WriteResponse(out, 404, "Not Found", "text/plain", []byte("not found: "+path))
		}
	}
}

func writeIndex(out net.Conn) {
	body := `<html><body><h1>instaworks</h1><ul>
<li><a href="/config">config</a></li>
<li><a href="/log">log</a></li>
<li><a href="/threads">threads</a></li>
<li><a href="/mutexes">mutexes</a></li>
<li><a href="/memory">memory</a></li>
<li><a href="/metrics">metrics</a></li>
</ul></body></html>`
	httpreq.WriteResponse(out, 200, "OK", "text/html", []byte(body))
}

// applyConfigForm applies every parameter -- URI query string merged with
// any form-urlencoded body, per httpreq.Request.Params -- through
// set_existing, so type conversion and validation run, per spec.md 4.14.
func applyConfigForm(store *valstore.Store, req *httpreq.Request, buf []byte) {
	for _, p := range req.Params {
		name := p.DecodeName(buf)
		value := p.DecodeValue(buf)
		store.SetExisting(name, value)
	}
}

func writeConfig(out net.Conn, store *valstore.Store) {
	var b bytes.Buffer
	b.WriteString("<html><body><h1>config</h1><form method=\"POST\" action=\"/config\">\n<table border=\"1\">\n")
	v, cursor, ok := store.GetFirst()
	for ok {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td><input name=\"%s\" value=\"%s\"></td></tr>\n", v.Name, v.Type, v.Name, v.ToString())
		v, cursor, ok = store.GetNext(cursor)
	}
	b.WriteString("</table>\n<input type=\"submit\">")
	b.WriteString("\n</form></body></html>")
	httpreq.WriteResponse(out, 200, "OK", "text/html", b.Bytes())
}

func writeLog(out net.Conn, ring *logring.Ring) {
	var b bytes.Buffer
	b.WriteString("<html><body><h1>log</h1><pre>\n")
	for _, rec := range ring.Read() {
		fmt.Fprintf(&b, "%s %s\n", rec.Timestamp.Format("2006-01-02T15:04:05.000"), htmlEscape(string(rec.Payload)))
	}
	b.WriteString("</pre></body></html>")
	httpreq.WriteResponse(out, 200, "OK", "text/html", b.Bytes())
}

func writeThreads(out net.Conn, threads *threadreg.Registry) {
	var b bytes.Buffer
	b.WriteString("<html><body><h1>threads</h1><pre>\n")
	for _, line := range threads.Dump() {
		b.WriteString(htmlEscape(line))
		b.WriteString("\n")
	}
	b.WriteString("</pre></body></html>")
	httpreq.WriteResponse(out, 200, "OK", "text/html", b.Bytes())
}

func writeMutexes(out net.Conn, mutexes *mutexreg.Registry) {
	var b bytes.Buffer
	b.WriteString("<html><body><h1>mutexes</h1><table border=\"1\">\n")
	for _, id := range mutexes.IDs() {
		name, _ := mutexes.Name(id)
		owner := mutexes.Owner(id)
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%d</td></tr>\n", id, htmlEscape(name), owner)
	}
	b.WriteString("</table></body></html>")
	httpreq.WriteResponse(out, 200, "OK", "text/html", b.Bytes())
}

func writeMemory(out net.Conn) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	body := fmt.Sprintf(`<html><body><h1>memory</h1><pre>
Alloc:        %d
TotalAlloc:   %d
Sys:          %d
NumGC:        %d
HeapAlloc:    %d
HeapInuse:    %d
NumGoroutine: %d
</pre></body></html>`, ms.Alloc, ms.TotalAlloc, ms.Sys, ms.NumGC, ms.HeapAlloc, ms.HeapInuse, runtime.NumGoroutine())
	httpreq.WriteResponse(out, 200, "OK", "text/html", []byte(body))
}

func writeMetrics(out net.Conn, reg *prometheus.Registry) {
	if reg == nil {
		httpreq.WriteResponse(out, 503, "Service Unavailable", "text/plain", []byte("metrics not configured"))
		return
	}
	families, err := reg.Gather()
	if err != nil {
		httpreq.WriteResponse(out, 500, "Internal Server Error", "text/plain", []byte(err.Error()))
		return
	}
	var b bytes.Buffer
	enc := expfmt.NewEncoder(&b, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			httpreq.WriteResponse(out, 500, "Internal Server Error", "text/plain", []byte(err.Error()))
			return
		}
	}
	httpreq.WriteResponse(out, 200, "OK", string(expfmt.FmtText), b.Bytes())
}

func htmlEscape(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

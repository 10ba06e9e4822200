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

package threadreg

import "fmt"

// Dump renders a one-line summary per registered thread, in the shape the
// `threads` command and the web surface's thread page both use.
func (r *Registry) Dump() []string {
	snap := r.Snapshot()
	lines := make([]string, 0, len(snap))
	for _, rec := range snap {
		client := "framework"
		if rec.IsClient {
			client = "client"
		}
		awaiting := "none"
		if rec.AwaitedMutex != 0 {
			awaiting = fmt.Sprintf("%d", rec.AwaitedMutex)
		}
		lines = append(lines, fmt.Sprintf("[%d] %-16s %-9s log=%-5t awaiting=%s",
			rec.Handle, rec.Name, client, rec.LogEnabled, awaiting))
	}
	return lines
}

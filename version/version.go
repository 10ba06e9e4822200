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

// Package version holds the build/version payload the `iwver` command
// prints, grounded on original_source/includes/iw_version.h (major/minor/
// level fields), extended with the Go runtime version and build date the
// original's Makefile stamped in at link time.
package version

import (
	"fmt"
	"runtime"
)

// Info is the static build/version payload.
type Info struct {
	Major     int
	Minor     int
	Level     string // "Alpha", "Beta", or "" for a release build.
	BuildDate string // set via -ldflags at build time; empty in dev builds.
}

// String renders the same "MAJOR.MINOR.LEVEL" shape as the original's
// IW_VER_STR macro, plus the Go runtime version and build date.
func (i Info) String() string {
	ver := fmt.Sprintf("%d.%d", i.Major, i.Minor)
	if i.Level != "" {
		ver += "." + i.Level
	}
	date := i.BuildDate
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("instaworks %s (built %s, %s)", ver, date, runtime.Version())
}

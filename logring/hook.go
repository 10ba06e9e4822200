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

package logring

import (
	"github.com/sirupsen/logrus"
)

// Hook mirrors every emitted logrus entry into a Ring, formatted as a
// single line. Grounded on the fan-out-to-external-sink shape of
// nabbar-golib/logger/hooksyslog, redirected from a syslog connection to
// the in-process ring buffer.
type Hook struct {
	ring      *Ring
	formatter logrus.Formatter
}

// NewHook returns a Hook writing formatted entries into ring.
func NewHook(ring *Ring) *Hook {
	return &Hook{ring: ring, formatter: &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}}
}

// Levels reports that this hook fires on every level; filtering by the
// `log lvl` bitmask happens at the Logger, not here, so the ring always
// holds the raw, unfiltered history.
func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire formats entry and writes it to the ring.
func (h *Hook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	// Trim the formatter's own trailing newline; the ring terminates
	// payloads with a NUL, not a newline.
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	h.ring.Write(entry.Time, line)
	return nil
}

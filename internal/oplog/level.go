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

// Package oplog is the ambient structured logger used by every subsystem.
// It wraps logrus with a small, closed level enum and hands every emitted
// entry to whatever logrus hooks are registered -- in particular the log
// ring's hook (see package logring).
package oplog

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Level is the substrate's own level enum, numerically compatible with the
// bitmask the `log lvl` command accepts (spec.md 4.10): bit i set means
// level i is enabled, with Panic=0 .. Debug=5, Nil=6 meaning "disabled".
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	NilLevel
)

func (l Level) Uint8() uint8 { return uint8(l) }
func (l Level) Int() int     { return int(l) }

// Code returns the short code used in log ring dumps and the `log lvl`
// command's bitmask legend.
func (l Level) Code() string {
	switch l {
	case DebugLevel:
		return "Debug"
	case InfoLevel:
		return "Info"
	case WarnLevel:
		return "Warn"
	case ErrorLevel:
		return "Err"
	case FatalLevel:
		return "Fatal"
	case PanicLevel:
		return "Crit"
	default:
		return ""
	}
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "Debug"
	case InfoLevel:
		return "Info"
	case WarnLevel:
		return "Warning"
	case ErrorLevel:
		return "Error"
	case FatalLevel:
		return "Fatal"
	case PanicLevel:
		return "Critical"
	case NilLevel:
		return ""
	default:
		return "unknown"
	}
}

// Logrus converts to the equivalent logrus.Level; NilLevel disables logging.
func (l Level) Logrus() logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	case PanicLevel:
		return logrus.PanicLevel
	default:
		return logrus.Level(math.MaxInt32)
	}
}

// Bit returns the bitmask bit used by the `log lvl <bitmask>` command: bit
// i is set when level i (Panic=0..Debug=5) should be emitted.
func (l Level) Bit() uint32 {
	if l > DebugLevel {
		return 0
	}
	return 1 << uint(l)
}

// FromBitmask reports whether level l is enabled in the given bitmask.
func FromBitmask(mask uint32, l Level) bool {
	return l <= DebugLevel && mask&l.Bit() != 0
}

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

package oplog

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the facade every subsystem logs through.
type Logger interface {
	Debug(message string, fields Fields, args ...interface{})
	Info(message string, fields Fields, args ...interface{})
	Warning(message string, fields Fields, args ...interface{})
	Error(message string, fields Fields, args ...interface{})

	SetLevel(lvl Level)
	GetLevel() Level

	// AddHook registers a logrus hook (e.g. the log ring's hook).
	AddHook(hook logrus.Hook)
}

// Fields is a set of structured key/value pairs attached to one entry.
type Fields map[string]interface{}

type logger struct {
	mu sync.RWMutex
	l  *logrus.Logger
}

// New returns a Logger writing to the given logrus instance's standard
// text formatter; callers typically add the log ring hook immediately.
func New() Logger {
	l := logrus.New()
	l.SetLevel(InfoLevel.Logrus())
	return &logger{l: l}
}

func (o *logger) SetLevel(lvl Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.l.SetLevel(lvl.Logrus())
}

func (o *logger) GetLevel() Level {
	o.mu.RLock()
	defer o.mu.RUnlock()
	switch o.l.GetLevel() {
	case logrus.DebugLevel:
		return DebugLevel
	case logrus.InfoLevel:
		return InfoLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.ErrorLevel:
		return ErrorLevel
	case logrus.FatalLevel:
		return FatalLevel
	case logrus.PanicLevel:
		return PanicLevel
	default:
		return NilLevel
	}
}

func (o *logger) AddHook(hook logrus.Hook) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.l.AddHook(hook)
}

func (o *logger) entry(fields Fields) *logrus.Entry {
	if fields == nil {
		return logrus.NewEntry(o.l)
	}
	return o.l.WithFields(logrus.Fields(fields))
}

func (o *logger) Debug(message string, fields Fields, args ...interface{}) {
	o.entry(fields).Debugf(message, args...)
}

func (o *logger) Info(message string, fields Fields, args ...interface{}) {
	o.entry(fields).Infof(message, args...)
}

func (o *logger) Warning(message string, fields Fields, args ...interface{}) {
	o.entry(fields).Warnf(message, args...)
}

func (o *logger) Error(message string, fields Fields, args ...interface{}) {
	o.entry(fields).Errorf(message, args...)
}

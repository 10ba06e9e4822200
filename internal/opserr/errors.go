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

// Package opserr defines the closed set of error kinds the runtime
// supervision substrate surfaces: resource exhaustion, validation,
// protocol, transport, supervisor, fatal-signal and deadlock. Errors never
// cross goroutines; each kind is raised, logged and handled by the
// component that detected it.
package opserr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories the substrate can raise.
type Kind uint8

const (
	// KindNone is the zero value; never attached to a returned error.
	KindNone Kind = iota
	// KindResourceExhaustion covers allocation/capacity failures (buffer
	// maximum exceeded, log ring message too large). Not fatal.
	KindResourceExhaustion
	// KindNoSuchValue: a controlled value store was asked to set an
	// undeclared name.
	KindNoSuchValue
	// KindIncorrectType: a set's value type does not match its criterion.
	KindIncorrectType
	// KindFailedCallback: a predicate validator rejected the value.
	KindFailedCallback
	// KindFailedRegexp: a regular-expression validator rejected the
	// value's string rendering.
	KindFailedRegexp
	// KindProtocol: a request could not be parsed (HTTP or command line).
	KindProtocol
	// KindTransport: a socket operation failed during serve.
	KindTransport
	// KindSupervisor: component initialization failed during startup.
	KindSupervisor
	// KindFatalSignal: the crash handler caught a fatal signal.
	KindFatalSignal
	// KindDeadlock: the health loop detected a wait-for cycle.
	KindDeadlock
)

// String renders the kind's short diagnostic name.
func (k Kind) String() string {
	switch k {
	case KindResourceExhaustion:
		return "resource-exhaustion"
	case KindNoSuchValue:
		return "no-such-value"
	case KindIncorrectType:
		return "incorrect-type"
	case KindFailedCallback:
		return "failed-callback"
	case KindFailedRegexp:
		return "failed-regexp"
	case KindProtocol:
		return "protocol"
	case KindTransport:
		return "transport"
	case KindSupervisor:
		return "supervisor"
	case KindFatalSignal:
		return "fatal-signal"
	case KindDeadlock:
		return "deadlock"
	default:
		return "none"
	}
}

// Error is the substrate's error type: a kind, a message and an optional
// wrapped parent. It implements error and supports errors.Is/errors.As via
// Unwrap, same as a plain wrapped stdlib error.
type Error struct {
	kind   Kind
	msg    string
	parent error
}

// New creates an Error of the given kind with a formatted message.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that wraps a parent error.
func Wrap(k Kind, parent error, format string, args ...interface{}) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(format, args...), parent: parent}
}

// Kind returns the error's category.
func (e *Error) Kind() Kind {
	if e == nil {
		return KindNone
	}
	return e.kind
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.parent != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.parent.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap exposes the wrapped parent so errors.Is/errors.As traverse it.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.parent
}

// Is reports whether target is an *Error of the same Kind. This lets
// callers write errors.Is(err, opserr.New(opserr.KindFailedRegexp, "")).
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.kind == e.kind
	}
	return false
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, k Kind) bool {
	for err != nil {
		var o *Error
		if !errors.As(err, &o) {
			return false
		}
		if o.kind == k {
			return true
		}
		err = o.parent
	}
	return false
}

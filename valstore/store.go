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

package valstore

import (
	"net/netip"
	"regexp"
	"strconv"

	"github.com/instaworks/instaworks/htable"
	"github.com/instaworks/instaworks/internal/opserr"
)

func compileRegexp(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}

// Store holds name/value pairs, either accepting any name (free-form) or
// restricted to names declared in advance via AddName* (controlled).
type Store struct {
	table      *htable.Table
	names      *htable.Table
	controlled bool
	log        func(format string, args ...interface{})
}

// New creates a Store. A controlled store only accepts names previously
// declared with AddName, AddNameCallback or AddNameRegexp.
func New(controlled bool) *Store {
	return &Store{
		table:      htable.New(64, nil),
		names:      htable.New(64, nil),
		controlled: controlled,
	}
}

// SetDebugLog installs a sink used to record non-fatal events, in
// particular the type-overwrite notice described in Set.
func (s *Store) SetDebugLog(fn func(format string, args ...interface{})) {
	s.log = fn
}

func (s *Store) debugf(format string, args ...interface{}) {
	if s.log != nil {
		s.log(format, args...)
	}
}

// AddName declares a controlled name with no validation beyond its type.
func (s *Store) AddName(name, msg string, typ Type, persist bool) bool {
	return s.names.Replace([]byte(name), &Criterion{Type: typ, Message: msg, Persist: persist})
}

// AddNameCallback declares a controlled name validated by a predicate.
func (s *Store) AddNameCallback(name, msg string, typ Type, fn Predicate, persist bool) bool {
	return s.names.Replace([]byte(name), &Criterion{Type: typ, Message: msg, Persist: persist, Predicate: fn})
}

// AddNameRegexp declares a controlled name validated by a regular
// expression applied to the value's string rendering.
func (s *Store) AddNameRegexp(name, msg string, typ Type, re string, persist bool) error {
	compiled, err := compileRegexp(re)
	if err != nil {
		return opserr.Wrap(opserr.KindFailedRegexp, err, "invalid criterion regexp for %q", name)
	}
	s.names.Replace([]byte(name), &Criterion{Type: typ, Message: msg, Persist: persist, Regexp: compiled})
	return nil
}

// AddNameValidator declares a controlled name validated by a
// github.com/go-playground/validator/v10 tag.
func (s *Store) AddNameValidator(name, msg string, typ Type, tag string, persist bool) bool {
	return s.names.Replace([]byte(name), &Criterion{Type: typ, Message: msg, Persist: persist, ValidatorTag: tag})
}

// GetPersist reports whether a declared name should be saved/loaded with
// the configuration file.
func (s *Store) GetPersist(name string) bool {
	c, ok := s.criterion(name)
	return ok && c.Persist
}

func (s *Store) criterion(name string) (*Criterion, bool) {
	v, ok := s.names.Get([]byte(name))
	if !ok {
		return nil, false
	}
	return v.(*Criterion), true
}

// Set inserts or replaces value in the store, applying whatever criterion
// is declared for its name in controlled mode.
//
// A Set that changes a free-form name's type is allowed and logged at
// debug level rather than rejected, per the Open Question decision
// recorded in SPEC_FULL.md: a controlled store's Type always comes from
// its declared Criterion, so only a free-form store can reach this path.
func (s *Store) Set(value *Value) error {
	if !s.controlled {
		if prev, ok := s.Get(value.Name); ok && prev.Type != value.Type {
			s.debugf("value %q changed type from %s to %s", value.Name, prev.Type, value.Type)
		}
	}
	if s.controlled {
		c, ok := s.criterion(value.Name)
		if !ok {
			return opserr.New(opserr.KindNoSuchValue, "no such value: %q", value.Name)
		}
		if c.Type != value.Type {
			return opserr.New(opserr.KindIncorrectType, "value %q expects type %s, got %s", value.Name, c.Type, value.Type)
		}
		if ok, msg := c.Check(value.Name, value); !ok {
			return s.criterionError(c, value.Name, msg)
		}
	}
	s.table.Replace([]byte(value.Name), value)
	return nil
}

func (s *Store) criterionError(c *Criterion, name, msg string) error {
	switch {
	case c.Regexp != nil:
		return opserr.New(opserr.KindFailedRegexp, "value for %q failed validation: %s", name, msg)
	default:
		return opserr.New(opserr.KindFailedCallback, "value for %q failed validation: %s", name, msg)
	}
}

// SetNumber is a convenience wrapper around Set for number values.
func (s *Store) SetNumber(name string, n int) error { return s.Set(NewNumber(name, n)) }

// SetString is a convenience wrapper around Set for string values.
func (s *Store) SetString(name, str string) error { return s.Set(NewString(name, str)) }

// SetAddress is a convenience wrapper around Set for address values.
func (s *Store) SetAddress(name string, addr netip.Addr) error { return s.Set(NewAddress(name, addr)) }

// SetExisting parses raw as the type of the already-stored value for name
// and sets it, applying that value's existing criterion. If no value is
// currently stored under name, this fails with KindNoSuchValue -- it never
// creates a new entry, matching iw_val_store_set_existing_value. Because
// raw is parsed as the existing type, SetExisting never changes a value's
// type.
func (s *Store) SetExisting(name, raw string) error {
	existing, ok := s.table.Get([]byte(name))
	if !ok {
		return opserr.New(opserr.KindNoSuchValue, "no existing value to update: %q", name)
	}
	cur := existing.(*Value)

	var next *Value
	switch cur.Type {
	case TypeNumber:
		n, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return opserr.Wrap(opserr.KindFailedRegexp, err, "value %q is not a number: %q", name, raw)
		}
		next = NewNumber(name, int(n))
	case TypeAddress:
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return opserr.Wrap(opserr.KindFailedRegexp, err, "value %q is not an address: %q", name, raw)
		}
		next = NewAddress(name, addr)
	default:
		next = NewString(name, raw)
	}

	return s.Set(next)
}

// Get returns the value stored under name, if any.
func (s *Store) Get(name string) (*Value, bool) {
	v, ok := s.table.Get([]byte(name))
	if !ok {
		return nil, false
	}
	return v.(*Value), true
}

// Delete removes the value stored under name.
func (s *Store) Delete(name string) bool {
	return s.table.Delete([]byte(name))
}

// Len returns the number of values currently stored.
func (s *Store) Len() int { return s.table.Len() }

// GetFirst begins a table-order iteration of stored values.
func (s *Store) GetFirst() (*Value, uint64, bool) {
	v, cursor, ok := s.table.GetFirst()
	if !ok {
		return nil, 0, false
	}
	return v.(*Value), cursor, true
}

// GetNext continues an iteration started by GetFirst.
func (s *Store) GetNext(cursor uint64) (*Value, uint64, bool) {
	v, next, ok := s.table.GetNext(cursor)
	if !ok {
		return nil, 0, false
	}
	return v.(*Value), next, true
}

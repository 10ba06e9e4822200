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
	"regexp"

	validator "github.com/go-playground/validator/v10"
)

// Regex shorthands for the three criteria the original ships as macros.
const (
	CritBool = `^[0-1]$`
	CritPort = `^([0-9]{1,4}|[1-5][0-9]{4}|6[0-4][0-9]{3}|65[0-4][0-9]{2}|655[0-2][0-9]|6553[0-5])$`
	CritChar = `^.$`
)

// Predicate validates a candidate value for a declared name, mirroring the
// original's IW_VAL_CRITERIA_FN callback shape.
type Predicate func(name string, v *Value) bool

// Criterion is the optional validation attached to a declared (controlled)
// name: a display message, whether the value persists to the config file,
// and at most one of a Predicate, a regular expression, or a go-playground
// validator tag.
type Criterion struct {
	Type      Type
	Message   string
	Persist   bool
	Predicate Predicate
	Regexp    *regexp.Regexp
	// ValidatorTag, when set, is checked via github.com/go-playground/
	// validator/v10 against the value's string rendering -- an alternate,
	// tag-based validation path the original C store has no equivalent
	// for, offered here because declaring "email", "hostname_port" or
	// "cidr" as a struct tag is less error-prone than hand-rolling the
	// regular expression.
	ValidatorTag string
}

var valid = validator.New()

// Check applies whichever validator the criterion carries, in the order
// predicate, regexp, validator-tag. A criterion with none of the three
// always passes.
func (c *Criterion) Check(name string, v *Value) (bool, string) {
	if c == nil {
		return true, ""
	}
	if c.Predicate != nil && !c.Predicate(name, v) {
		return false, c.Message
	}
	if c.Regexp != nil && !c.Regexp.MatchString(v.ToString()) {
		return false, c.Message
	}
	if c.ValidatorTag != "" {
		if err := valid.Var(v.ToString(), c.ValidatorTag); err != nil {
			return false, c.Message
		}
	}
	return true, ""
}

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

// Package valstore implements the typed name/value store: a free-form mode
// that accepts any name, and a controlled mode where names must be
// pre-declared with a type and an optional validation criterion.
//
// Grounded on original_source/includes/iw_val_store.h and iw_val_store.c:
// the same three value types (number/string/address), the same three regex
// shorthands, and the same set_existing_value semantics (parse the incoming
// string as the existing value's type, then apply its criterion).
package valstore

import (
	"fmt"
	"net/netip"
)

// Type is the closed set of value kinds a store can hold.
type Type uint8

const (
	TypeNone Type = iota
	TypeNumber
	TypeString
	TypeAddress
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeAddress:
		return "address"
	default:
		return "none"
	}
}

// Value is a single named, typed entry. Only the field matching Type is
// meaningful.
type Value struct {
	Name    string
	Type    Type
	Number  int
	String  string
	Address netip.Addr
}

// NewNumber creates a number value.
func NewNumber(name string, n int) *Value {
	return &Value{Name: name, Type: TypeNumber, Number: n}
}

// NewString creates a string value.
func NewString(name, s string) *Value {
	return &Value{Name: name, Type: TypeString, String: s}
}

// NewAddress creates an address value.
func NewAddress(name string, addr netip.Addr) *Value {
	return &Value{Name: name, Type: TypeAddress, Address: addr}
}

// ToString renders the value's content in its canonical string form,
// regardless of Type; used both for display and as the input to a
// regexp criterion applied to a number or address value.
func (v *Value) ToString() string {
	switch v.Type {
	case TypeNumber:
		return fmt.Sprintf("%d", v.Number)
	case TypeString:
		return v.String
	case TypeAddress:
		return v.Address.String()
	default:
		return ""
	}
}

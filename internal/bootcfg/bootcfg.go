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

// Package bootcfg optionally loads and saves the configuration store's
// persisted values against a file on disk.
//
// Grounded on spec.md 4.15 step 1 ("optional load from file") and the
// configuration-file contract in spec.md §6: a nested object keyed by the
// canonical dot-separated name path, read tolerant of unknown keys, written
// with only the persisted subset. The original has no direct analogue
// (its config file is a bespoke key=value format parsed by hand); this
// substitutes github.com/spf13/viper for the parse/nest/nested-key walk,
// following the ComponentViper idea in
// nabbar-golib/config/types/component.go of handing configuration access
// through a Viper instance rather than a hand-rolled reader.
package bootcfg

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/instaworks/instaworks/internal/opserr"
	"github.com/instaworks/instaworks/valstore"
)

// Load reads path into a fresh viper instance and applies every leaf key
// it finds, as a dot-separated canonical name, to an already-declared
// value in store via Store.SetExisting. Per spec.md §6, reading is
// tolerant of unknown keys: SetExisting's KindNoSuchValue error for a name
// the store does not already hold is swallowed rather than propagated, so
// a config file may carry keys an older or newer build does not know
// about. A malformed file (bad syntax) is the only error this returns.
func Load(path string, store *valstore.Store) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return opserr.Wrap(opserr.KindSupervisor, err, "reading configuration file %q", path)
	}

	flat, err := flatten(v.AllSettings())
	if err != nil {
		return opserr.Wrap(opserr.KindSupervisor, err, "decoding configuration file %q", path)
	}

	for name, raw := range flat {
		_ = store.SetExisting(name, raw) // unknown/invalid keys are ignored, not fatal.
	}
	return nil
}

// Save writes every persisted value in store to path as a nested object
// keyed by canonical dot-separated name, via viper's encoder for path's
// extension (inferred from its suffix, e.g. ".yaml", ".json", ".toml").
func Save(path string, store *valstore.Store) error {
	v := viper.New()
	v.SetConfigFile(path)

	val, cursor, ok := store.GetFirst()
	for ok {
		if store.GetPersist(val.Name) {
			v.Set(val.Name, val.ToString())
		}
		val, cursor, ok = store.GetNext(cursor)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return opserr.Wrap(opserr.KindSupervisor, err, "writing configuration file %q", path)
	}
	return nil
}

// flatten walks viper's nested settings map and returns every leaf as a
// dot-joined canonical name to its string rendering, using mapstructure's
// weak-typed decoding so ints/bools/floats all flatten to the same string
// form Store.SetExisting expects to parse.
func flatten(settings map[string]interface{}) (map[string]string, error) {
	out := make(map[string]string)
	return out, flattenInto(out, "", settings)
}

func flattenInto(out map[string]string, prefix string, node interface{}) error {
	m, ok := node.(map[string]interface{})
	if !ok {
		var s string
		if err := mapstructure.WeakDecode(node, &s); err != nil {
			return err
		}
		out[prefix] = s
		return nil
	}
	for k, v := range m {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if err := flattenInto(out, name, v); err != nil {
			return err
		}
	}
	return nil
}

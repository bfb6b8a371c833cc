/*
Copyright © 2023 Rob Haswell <rob@haswell.co.uk>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package code

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table maps command names to codes. Lookups ignore case, '-', '_' and
// spaces, so "Volume_Up" and "volumeup" both find "volume-up".
type Table map[string]Code

var builtins = map[string]Code{
	"volume-up":   VolumeUp,
	"volume-down": VolumeDown,
	"power":       Power,
	"up":          Up,
	"down":        Down,
	"ok":          OK,
	"left":        Left,
	"right":       Right,
	"source":      Source,
}

// Builtin returns a new Table holding the known TCL commands.
func Builtin() Table {
	t := make(Table, len(builtins))
	for name, c := range builtins {
		t[name] = c
	}
	return t
}

// Lookup finds a built-in command.
func Lookup(name string) (Code, bool) {
	return Builtin().Lookup(name)
}

// Names returns the built-in command names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds name in t.
func (t Table) Lookup(name string) (Code, bool) {
	if c, ok := t[name]; ok {
		return c, true
	}
	key := normalize(name)
	for n, c := range t {
		if normalize(n) == key {
			return c, true
		}
	}
	return "", false
}

// Name returns the first name, in sorted order, bound to c.
func (t Table) Name(c Code) (string, bool) {
	for _, name := range t.Names() {
		if t[name] == c {
			return name, true
		}
	}
	return "", false
}

// Names returns the names in t, sorted.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge adds extra to t, replacing existing names. Every code is checked
// with Encode and nothing is added if any entry is invalid.
func (t Table) Merge(extra map[string]string) error {
	checked := make(map[string]Code, len(extra))
	for name, raw := range extra {
		name = strings.TrimSpace(name)
		if normalize(name) == "" {
			return fmt.Errorf("invalid command name %q", name)
		}
		c := Code(raw)
		if _, err := Encode(c); err != nil {
			return fmt.Errorf("command %q: %w", name, err)
		}
		checked[name] = c
	}
	for name, c := range checked {
		key := normalize(name)
		for n := range t {
			if normalize(n) == key {
				delete(t, n)
			}
		}
		t[name] = c
	}
	return nil
}

// Resolve interprets arg as a name in t or, failing that, as a raw Code.
// Anything that looks like a code is checked with Encode so its error
// comes back unchanged.
func Resolve(t Table, arg string) (Code, error) {
	if c, ok := t.Lookup(arg); ok {
		return c, nil
	}
	if !looksLikeCode(arg) {
		return "", fmt.Errorf("unknown command %q", arg)
	}
	c := Code(arg)
	if _, err := Encode(c); err != nil {
		return "", err
	}
	return c, nil
}

// looksLikeCode reports whether s has the length of a Code or is made only
// of marker and bit characters.
func looksLikeCode(s string) bool {
	if utf8.RuneCountInString(s) == CodeLen {
		return true
	}
	return s != "" && strings.Trim(s, "01BE") == ""
}

func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

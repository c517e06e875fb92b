// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

// Argument is one named value.
type Argument struct {
	Name  string
	Value VariantView
}

// Arguments is an ordered list of named values. It carries connect options
// into Database.OpenArguments and row values out of Record.Arguments.
type Arguments []Argument

// Append adds a named value and returns the extended list.
func (a Arguments) Append(name string, v VariantView) Arguments {
	return append(a, Argument{Name: name, Value: v})
}

// Index returns the position of the first argument with the given name, or
// -1 when there is none.
func (a Arguments) Index(name string) int {
	for i := range a {
		if a[i].Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value for name, the empty view when name is missing.
func (a Arguments) Get(name string) VariantView {
	if i := a.Index(name); i != -1 {
		return a[i].Value
	}
	return VariantView{}
}

// String returns the value for name formatted as text.
func (a Arguments) String(name string) string { return a.Get(name).AsString() }

// Bool reports whether name is present and truthy.
func (a Arguments) Bool(name string) bool {
	v := a.Get(name)
	if v.IsNull() {
		return false
	}
	if IsString(v.Type()) {
		s := v.Str()
		return s == "1" || s == "true" || s == "TRUE"
	}
	return v.AsInt64() != 0
}

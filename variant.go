// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import (
	"fmt"
	"strconv"
)

// VariantView is a borrowed tagged value. Scalars are carried inline; string
// and binary payloads reference memory owned elsewhere, typically a record
// cell, and stay valid only as long as that memory does. The zero value is
// the empty view with kind Unknown, which is also how null cells read.
type VariantView struct {
	typ uint32
	i   int64
	f   float64
	b   []byte
}

// Variant is the owning form of VariantView; its payload does not alias
// other memory.
type Variant struct {
	VariantView
}

func NullView() VariantView { return VariantView{} }

func BoolView(v bool) VariantView {
	var i int64
	if v {
		i = 1
	}
	return VariantView{typ: TypeBool, i: i}
}

func Int32View(v int32) VariantView   { return VariantView{typ: TypeInt32, i: int64(v)} }
func Int64View(v int64) VariantView   { return VariantView{typ: TypeInt64, i: v} }
func Float64View(v float64) VariantView { return VariantView{typ: TypeFloat64, f: v} }

// StringView borrows s as an utf8 string value.
func StringView(s string) VariantView { return VariantView{typ: TypeUtf8, b: []byte(s)} }

// BinaryView borrows b as a binary value.
func BinaryView(b []byte) VariantView { return VariantView{typ: TypeBinary, b: b} }

// GuidView borrows a 16 byte identifier as a guid value.
func GuidView(b []byte) VariantView { return VariantView{typ: TypeGuid, b: b} }

// view builds a borrowed value for a record cell.
func view(typ uint32, i int64, f float64, b []byte) VariantView {
	return VariantView{typ: typ, i: i, f: f, b: b}
}

// Type returns the complete type tag.
func (v VariantView) Type() uint32 { return v.typ }

// Kind returns the kind number of the tag.
func (v VariantView) Kind() uint32 { return KindOf(v.typ) }

// Group returns the group bits of the tag.
func (v VariantView) Group() uint32 { return GroupOf(v.typ) }

// IsNull reports whether the view is empty.
func (v VariantView) IsNull() bool { return KindOf(v.typ) == KindUnknown }

// Length returns the payload length for string and binary values, 0 for
// scalars and null.
func (v VariantView) Length() int { return len(v.b) }

func (v VariantView) Bool() bool       { return v.i != 0 }
func (v VariantView) Int64() int64     { return v.i }
func (v VariantView) Float64() float64 { return v.f }

// Bytes returns the borrowed payload for string and binary values.
func (v VariantView) Bytes() []byte { return v.b }

// Str returns the payload as a string. Only meaningful for string values.
func (v VariantView) Str() string { return string(v.b) }

// AsInt64 converts the value to int64, parsing string payloads.
func (v VariantView) AsInt64() int64 {
	switch {
	case IsDecimal(v.typ):
		return int64(v.f)
	case IsString(v.typ):
		n, _ := strconv.ParseInt(v.Str(), 10, 64)
		return n
	default:
		return v.i
	}
}

// AsFloat64 converts the value to float64, parsing string payloads.
func (v VariantView) AsFloat64() float64 {
	switch {
	case IsDecimal(v.typ):
		return v.f
	case IsString(v.typ):
		f, _ := strconv.ParseFloat(v.Str(), 64)
		return f
	default:
		return float64(v.i)
	}
}

// AsString formats the value as text.
func (v VariantView) AsString() string {
	switch {
	case v.IsNull():
		return ""
	case IsString(v.typ) || IsDate(v.typ):
		return v.Str()
	case IsBinary(v.typ):
		return fmt.Sprintf("%x", v.b)
	case IsDecimal(v.typ):
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case IsBoolean(v.typ):
		return strconv.FormatBool(v.i != 0)
	default:
		return strconv.FormatInt(v.i, 10)
	}
}

// Clone copies the view into an owning Variant.
func (v VariantView) Clone() Variant {
	out := Variant{VariantView: v}
	if v.b != nil {
		out.b = append([]byte(nil), v.b...)
	}
	return out
}

// View borrows the variant's payload back as a view.
func (v Variant) View() VariantView { return v.VariantView }

// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeFromName(t *testing.T) {
	tests := []struct {
		name string
		want uint32
	}{
		{"int32", TypeInt32},
		{"INT32", TypeInt32},
		{"Int32", TypeInt32},
		{"int64", TypeInt64},
		{"int16", TypeInt16},
		{"int8", TypeInt8},
		{"integer", TypeInt32},
		{"uint8", TypeUInt8},
		{"uint16", TypeUInt16},
		{"uint32", TypeUInt32},
		{"uint64", TypeUInt64},
		{"utf8", TypeUtf8},
		{"utf32", TypeUtf32},
		{"binary", TypeBinary},
		{"bool", TypeBool},
		{"decimal", TypeDecimal},
		{"date", TypeDate},
		{"datetime", TypeDateTime},
		{"double", TypeFloat64},
		{"guid", TypeGuid},
		{"float", TypeFloat32},
		{"numeric", TypeNumeric},
		{"nvarchar", TypeWString},
		{"string", TypeString},
		{"varchar", TypeString},
		{"varchar(100)", TypeString},
		{"", TypeUnknown},
		{"qqq", TypeUnknown},
		{"7", TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeFromName(tt.name))
		})
	}
}

func TestValueSize(t *testing.T) {
	assert.Equal(t, uint32(1), ValueSize(TypeBool))
	assert.Equal(t, uint32(1), ValueSize(TypeInt8))
	assert.Equal(t, uint32(2), ValueSize(TypeInt16))
	assert.Equal(t, uint32(4), ValueSize(TypeInt32))
	assert.Equal(t, uint32(8), ValueSize(TypeInt64))
	assert.Equal(t, uint32(4), ValueSize(TypeFloat32))
	assert.Equal(t, uint32(8), ValueSize(TypeFloat64))
	assert.Equal(t, uint32(16), ValueSize(TypeGuid))
	assert.Equal(t, uint32(0), ValueSize(TypeUtf8))
	assert.Equal(t, uint32(0), ValueSize(TypeBinary))
	assert.Equal(t, uint32(0), ValueSize(TypeUnknown))
}

func TestGroups(t *testing.T) {
	assert.True(t, IsInteger(TypeInt32))
	assert.True(t, IsInteger(TypeBool))
	assert.True(t, IsBoolean(TypeBool))
	assert.False(t, IsBoolean(TypeInt32))
	assert.True(t, IsString(TypeUtf8))
	assert.True(t, IsString(TypeDecimal))
	assert.True(t, IsDecimal(TypeFloat64))
	assert.True(t, IsBinary(TypeGuid))
	assert.True(t, IsDate(TypeDateTime))

	assert.Equal(t, KindInt32, KindOf(TypeInt32))
	assert.Equal(t, GroupString, GroupOf(TypeUtf8))
	assert.Equal(t, GroupNumber|GroupInteger|GroupSigned, GroupOf(TypeInt64))
}

// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbc

import (
	"testing"

	"github.com/unidb/unidb"
	"github.com/unidb/unidb/odbc/api"
)

func TestSpecFromSQLType(t *testing.T) {
	tests := []struct {
		name    string
		sqltype api.SQLSMALLINT
		size    api.SQLULEN
		typ     uint32
		cc      api.SQLSMALLINT
		fixed   uint32
		start   uint32
		wide    bool
	}{
		{"bit", api.SQL_BIT, 0, unidb.TypeBool, api.SQL_C_BIT, 1, 0, false},
		{"tinyint", api.SQL_TINYINT, 0, unidb.TypeInt8, api.SQL_C_LONG, 4, 0, false},
		{"smallint", api.SQL_SMALLINT, 0, unidb.TypeInt16, api.SQL_C_LONG, 4, 0, false},
		{"integer", api.SQL_INTEGER, 0, unidb.TypeInt32, api.SQL_C_LONG, 4, 0, false},
		{"bigint", api.SQL_BIGINT, 0, unidb.TypeInt64, api.SQL_C_SBIGINT, 8, 0, false},
		{"numeric", api.SQL_NUMERIC, 10, unidb.TypeFloat64, api.SQL_C_DOUBLE, 8, 0, false},
		{"double", api.SQL_DOUBLE, 0, unidb.TypeFloat64, api.SQL_C_DOUBLE, 8, 0, false},
		{"guid", api.SQL_GUID, 0, unidb.TypeGuid, api.SQL_C_BINARY, 16, 0, false},
		{"timestamp", api.SQL_TYPE_TIMESTAMP, 0, unidb.TypeDateTime, api.SQL_C_CHAR, 0, 32, false},
		{"varchar", api.SQL_VARCHAR, 20, unidb.TypeUtf8, api.SQL_C_CHAR, 0, 21, false},
		{"varchar unbounded", api.SQL_VARCHAR, 0, unidb.TypeUtf8, api.SQL_C_CHAR, 0, 256, false},
		{"varchar huge", api.SQL_VARCHAR, 1 << 20, unidb.TypeUtf8, api.SQL_C_CHAR, 0, 256, false},
		{"longvarchar", api.SQL_LONGVARCHAR, 0, unidb.TypeUtf8, api.SQL_C_CHAR, 0, 256, false},
		{"wvarchar", api.SQL_WVARCHAR, 10, unidb.TypeUtf8, api.SQL_C_WCHAR, 0, 11, true},
		{"varbinary", api.SQL_VARBINARY, 16, unidb.TypeBinary, api.SQL_C_BINARY, 0, 17, false},
		{"varbinary unbounded", api.SQL_VARBINARY, 0, unidb.TypeBinary, api.SQL_C_BINARY, 0, 32, false},
		{"longvarbinary", api.SQL_LONGVARBINARY, 0, unidb.TypeBinary, api.SQL_C_BINARY, 0, 32, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := specFromSQLType(tt.sqltype, tt.size)
			if err != nil {
				t.Fatalf("specFromSQLType(%d, %d): %v", tt.sqltype, tt.size, err)
			}
			if spec.typ != tt.typ {
				t.Errorf("typ = %#x, want %#x", spec.typ, tt.typ)
			}
			if spec.cc != tt.cc {
				t.Errorf("cc = %d, want %d", spec.cc, tt.cc)
			}
			if spec.fixed != tt.fixed {
				t.Errorf("fixed = %d, want %d", spec.fixed, tt.fixed)
			}
			if spec.start != tt.start {
				t.Errorf("start = %d, want %d", spec.start, tt.start)
			}
			if spec.wide != tt.wide {
				t.Errorf("wide = %v, want %v", spec.wide, tt.wide)
			}
		})
	}
}

func TestSpecFromSQLTypeUnsupported(t *testing.T) {
	if _, err := specFromSQLType(api.SQLSMALLINT(-77), 0); err == nil {
		t.Fatal("expected error for unknown sql type")
	}
}

func TestUTF16ToUTF8(t *testing.T) {
	tests := []struct {
		in   []uint16
		want string
	}{
		{[]uint16{'h', 'i', 0}, "hi"},
		{[]uint16{'h', 'i'}, "hi"},
		{[]uint16{0}, ""},
		{[]uint16{0x00e5, 0x00e4, 0x00f6}, "åäö"},
		{[]uint16{0xd83d, 0xde00}, "\U0001F600"},
		{[]uint16{0xd83d}, "�"}, // lone surrogate
	}
	for _, tt := range tests {
		if got := string(utf16toutf8(tt.in)); got != tt.want {
			t.Errorf("utf16toutf8(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{APIName: "SQLExecute", Diag: []DiagRecord{
		{State: "42000", NativeError: 102, Message: "syntax error"},
	}}
	want := "SQLExecute: {42000} syntax error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

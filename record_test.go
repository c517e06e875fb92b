// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selectRecord builds the record shape the sqlite bridge produces for
// SELECT id, score, name, data.
func selectRecord() *Record {
	r := &Record{}
	r.Add(TypeInt64, "id").
		Add(TypeFloat64, "score").
		AddSized(TypeUtf8, 0, 256, "name").
		AddSized(TypeBinary, 0, 32, "data")
	return r
}

func TestRecordAdd(t *testing.T) {
	r := selectRecord()
	require.Equal(t, 4, r.ColumnCount())

	for i, want := range []string{"id", "score", "name", "data"} {
		assert.Equal(t, want, r.Name(i))
		assert.Equal(t, i, r.ColumnIndexByName(want))
		assert.Equal(t, i, r.Column(i).Index())
	}
	assert.Equal(t, TypeInt64, r.Column(0).Type())
	assert.Equal(t, KindUtf8, r.Column(2).Kind())

	assert.True(t, r.Column(0).IsFixed())
	assert.True(t, r.Column(1).IsFixed())
	assert.False(t, r.Column(2).IsFixed())
	assert.False(t, r.Column(3).IsFixed())
	assert.Equal(t, 256, r.Column(2).SizeBuffer())
	assert.Equal(t, DerivedStartSize, r.Column(3).SizeBuffer())
}

func TestRecordAddAlias(t *testing.T) {
	r := &Record{}
	r.AddFull(TypeInt64, 0, 8, 0, "FCustomerKey", "customer", 0)
	assert.Equal(t, "FCustomerKey", r.Name(0))
	assert.Equal(t, "customer", r.Alias(0))
	r.Add(TypeInt64, "plain")
	assert.Equal(t, "", r.Alias(1))
}

func TestRecordNameLookupMiss(t *testing.T) {
	r := selectRecord()
	assert.Equal(t, -1, r.ColumnIndexByName("nope"))
	v := r.VariantViewByName("nope")
	assert.Equal(t, KindUnknown, v.Kind())
	assert.True(t, v.IsNull())
}

// fillRow writes one row's worth of cell data the way a driver bridge does.
func fillRow(r *Record, id int64, score float64, name string, data []byte) {
	PutCellInt64(r.BufferGet(0), id)
	r.Column(0).SetNull(false)
	PutCellFloat64(r.BufferGet(1), score)
	r.Column(1).SetNull(false)

	buf := r.BufferGet(2)
	if len(name)+1 > r.Column(2).SizeBuffer() {
		buf = r.Resize(2, uint32(len(name))+1)
	}
	copy(buf, name)
	buf[len(name)] = 0
	r.Column(2).SetSize(len(name))
	r.Column(2).SetNull(false)

	buf = r.BufferGet(3)
	if len(data) > r.Column(3).SizeBuffer() {
		buf = r.Resize(3, uint32(len(data)))
	}
	copy(buf, data)
	r.Column(3).SetSize(len(data))
	r.Column(3).SetNull(false)
}

func TestRecordVariantViews(t *testing.T) {
	r := selectRecord()
	fillRow(r, 7, 0.5, "hello", []byte{0x00, 0xff})

	v := r.VariantView(0)
	assert.Equal(t, KindInt64, v.Kind())
	assert.Equal(t, int64(7), v.Int64())

	v = r.VariantView(1)
	assert.Equal(t, 0.5, v.Float64())

	v = r.VariantView(2)
	assert.Equal(t, KindUtf8, v.Kind())
	assert.Equal(t, 5, v.Length())
	assert.Equal(t, "hello", v.Str())

	v = r.VariantView(3)
	assert.Equal(t, KindBinary, v.Kind())
	assert.Equal(t, []byte{0x00, 0xff}, v.Bytes())

	views := r.VariantViews()
	require.Len(t, views, 4)
	assert.Equal(t, "hello", views[2].Str())

	views = r.VariantViewsAt([]int{2, 0})
	require.Len(t, views, 2)
	assert.Equal(t, "hello", views[0].Str())
	assert.Equal(t, int64(7), views[1].Int64())
}

func TestRecordNullColumn(t *testing.T) {
	r := selectRecord()
	fillRow(r, 7, 0.5, "hello", nil)
	r.Column(0).SetNull(true)

	v := r.VariantView(0)
	assert.True(t, v.IsNull())
	assert.Equal(t, KindUnknown, v.Kind())
}

func TestRecordResizeGrows(t *testing.T) {
	r := selectRecord()
	long := make([]byte, 1000)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	fillRow(r, 1, 0, string(long), nil)

	col := r.Column(2)
	assert.GreaterOrEqual(t, col.SizeBuffer(), 1001)
	v := r.VariantView(2)
	assert.Equal(t, 1000, v.Length())
	assert.Equal(t, string(long), v.Str())
}

func TestRecordInt32NarrowsFromInt64Cell(t *testing.T) {
	r := &Record{}
	// a column of 32 bit kind stored in an eight byte cell reads back
	// narrowed from the int64 the cell holds
	r.AddFull(TypeInt32, 0, 8, 0, "n", "", 0)
	PutCellInt64(r.BufferGet(0), -12)
	r.Column(0).SetNull(false)
	v := r.VariantView(0)
	assert.Equal(t, KindInt32, v.Kind())
	assert.Equal(t, int64(-12), v.Int64())
}

func TestRecordSetColumnState(t *testing.T) {
	r := selectRecord()
	r.SetColumnState(2, StateMemory, 0)
	assert.NotZero(t, r.Column(2).State()&StateMemory)
	r.SetColumnState(2, 0, StateMemory)
	assert.Zero(t, r.Column(2).State()&StateMemory)
}

func TestRecordArguments(t *testing.T) {
	r := selectRecord()
	fillRow(r, 7, 0.5, "hello", []byte{1})
	args := r.Arguments()
	require.Len(t, args, 4)
	assert.Equal(t, "id", args[0].Name)
	assert.Equal(t, int64(7), args[0].Value.Int64())
	assert.Equal(t, "hello", args.Get("name").Str())
	assert.True(t, args.Get("missing").IsNull())
}

func TestRecordClear(t *testing.T) {
	r := selectRecord()
	r.Clear()
	assert.True(t, r.Empty())
	assert.Equal(t, 0, r.ColumnCount())
	r.Add(TypeInt64, "fresh")
	assert.Equal(t, 0, r.ColumnIndexByName("fresh"))
}

func TestColumnInformation(t *testing.T) {
	r := selectRecord()
	info := r.ColumnInformation()
	require.Len(t, info, 4)
	assert.Equal(t, ColumnInfo{Index: 2, Type: TypeUtf8, Name: "name"}, info[2])
	assert.Equal(t, []string{"id", "score", "name", "data"}, r.NamesList())
	assert.Equal(t, []uint32{TypeInt64, TypeFloat64, TypeUtf8, TypeBinary}, r.Types())
}

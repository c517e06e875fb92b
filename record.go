// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import "unsafe"

// Column value state bits.
const (
	StateNull   uint32 = 0x01 // value in the column is null
	StateFixed  uint32 = 0x02 // cell lives in the fixed region
	StateMemory uint32 = 0x04 // cell data is fully materialized in memory
	StateBlob   uint32 = 0x08 // buffer must be checked against the value size on every row
)

// Column describes a single result field: its type, where its cell lives and
// the state of the current value. For fixed columns ValueOffset is a byte
// offset into the record's fixed region; for variable columns it is the slot
// index of the derived buffer.
type Column struct {
	state       uint32
	typ         uint32 // complete value type
	ctype       uint32 // storage representation used by the driver bridge
	size        uint64 // current value size in bytes
	bufferSize  uint64 // total cell size in bytes
	index       uint32
	nameOffset  uint16
	aliasOffset uint16
	valueOffset uint32
}

func (c *Column) Index() int          { return int(c.index) }
func (c *Column) Type() uint32        { return c.typ }
func (c *Column) Kind() uint32        { return KindOf(c.typ) }
func (c *Column) CType() uint32       { return c.ctype }
func (c *Column) State() uint32       { return c.state }
func (c *Column) Size() int           { return int(c.size) }
func (c *Column) SizeBuffer() int     { return int(c.bufferSize) }
func (c *Column) ValueOffset() uint32 { return c.valueOffset }

func (c *Column) IsNull() bool  { return c.state&StateNull != 0 }
func (c *Column) IsFixed() bool { return c.state&StateFixed != 0 }
func (c *Column) IsBlob() bool  { return c.state&StateBlob != 0 }

func (c *Column) SetSize(size int) { c.size = uint64(size) }

func (c *Column) SetNull(null bool) {
	if null {
		c.state |= StateNull
	} else {
		c.state &^= StateNull
	}
}

// SetState sets and clears state bits in one update.
func (c *Column) SetState(set, clear uint32) {
	c.state |= set
	c.state &^= clear
}

// Record stores one row of a result set: an ordered column descriptor table,
// a name arena and the owned cell storage. Columns are appended before the
// first row is fetched; after that a driver bridge refills the cells for
// every row and callers read them back as variant views.
type Record struct {
	columns []Column
	names   Names
	buffers Buffers
}

// Add appends a column of the given complete type using its static size;
// variable kinds get a derived buffer with the default payload.
func (r *Record) Add(typ uint32, name string) *Record {
	return r.AddFull(typ, 0, ValueSize(typ), 0, name, "", 0)
}

// AddSized appends a column with an explicit fixed size (sizeFixed > 0) or a
// derived buffer of at least startBufferSize bytes (sizeFixed == 0).
func (r *Record) AddSized(typ, sizeFixed, startBufferSize uint32, name string) *Record {
	return r.AddFull(typ, 0, sizeFixed, startBufferSize, name, "", 0)
}

// AddFull appends a column, allocating its cell and storing name and alias
// in the record's arena. It returns the record for chaining.
func (r *Record) AddFull(typ, ctype, sizeFixed, startBufferSize uint32, name, alias string, state uint32) *Record {
	c := Column{
		typ:   typ,
		ctype: ctype,
		state: state,
		index: uint32(len(r.columns)),
	}
	if sizeFixed > 0 {
		c.state |= StateFixed
		c.valueOffset = r.buffers.PrimitiveAdd(typ, sizeFixed)
		c.bufferSize = uint64(sizeFixed)
	} else {
		c.state &^= StateFixed
		size := startBufferSize
		if size < DerivedStartSize {
			size = DerivedStartSize
		}
		c.valueOffset = r.buffers.DerivedAdd(typ, size)
		c.bufferSize = uint64(BufferSize(r.buffers.DerivedData(c.valueOffset)))
	}
	c.nameOffset = r.names.Add(name)
	if alias != "" {
		c.aliasOffset = r.names.Add(alias)
	}
	r.columns = append(r.columns, c)
	return r
}

func (r *Record) ColumnCount() int { return len(r.columns) }
func (r *Record) Empty() bool      { return len(r.columns) == 0 }

// Column returns the descriptor at index.
func (r *Record) Column(index int) *Column { return &r.columns[index] }

// Columns exposes the descriptor table in column order.
func (r *Record) Columns() []Column { return r.columns }

// ColumnIndexByName returns the index of the first column with the given
// name, or -1 when no column matches.
func (r *Record) ColumnIndexByName(name string) int {
	for i := range r.columns {
		if r.names.Get(r.columns[i].nameOffset) == name {
			return i
		}
	}
	return -1
}

// SetColumnState updates state bits on one column.
func (r *Record) SetColumnState(index int, set, clear uint32) {
	r.columns[index].SetState(set, clear)
}

// Name returns the column name at index.
func (r *Record) Name(index int) string { return r.names.Get(r.columns[index].nameOffset) }

// Alias returns the column alias at index, empty when none was set.
func (r *Record) Alias(index int) string {
	if r.columns[index].aliasOffset == 0 {
		return ""
	}
	return r.names.Get(r.columns[index].aliasOffset)
}

// NamesList returns all column names in order.
func (r *Record) NamesList() []string {
	out := make([]string, len(r.columns))
	for i := range r.columns {
		out[i] = r.Name(i)
	}
	return out
}

// Types returns all complete column types in order.
func (r *Record) Types() []uint32 {
	out := make([]uint32, len(r.columns))
	for i := range r.columns {
		out[i] = r.columns[i].typ
	}
	return out
}

// ColumnInfo is the (index, type, name) triple describing one column.
type ColumnInfo struct {
	Index int
	Type  uint32
	Name  string
}

// ColumnInformation returns descriptive triples for all columns.
func (r *Record) ColumnInformation() []ColumnInfo {
	out := make([]ColumnInfo, len(r.columns))
	for i := range r.columns {
		out[i] = ColumnInfo{Index: i, Type: r.columns[i].typ, Name: r.Name(i)}
	}
	return out
}

// BufferGet returns the cell bytes for a column: the fixed region cell for
// fixed columns, the derived payload otherwise. The slice is invalidated by
// the next Add, Resize, row update or Clear.
func (r *Record) BufferGet(index int) []byte {
	c := &r.columns[index]
	if c.IsFixed() {
		off := c.valueOffset
		return r.buffers.fixed[off : off+uint32(c.bufferSize)]
	}
	return r.buffers.DerivedDataValue(c.valueOffset)
}

// BufferGetDetached returns the whole derived buffer of a variable column,
// size and kind header included.
func (r *Record) BufferGetDetached(index int) []byte {
	return r.buffers.DerivedData(r.columns[index].valueOffset)
}

// Resize grows the derived buffer of a variable column so it can hold size
// bytes and returns the new payload. Previously obtained cell slices must be
// refreshed afterwards.
func (r *Record) Resize(index int, size uint32) []byte {
	c := &r.columns[index]
	buf := r.buffers.DerivedResize(c.valueOffset, size)
	c.bufferSize = uint64(BufferSize(buf))
	return buf[DerivedValueOffset:]
}

// Clear drops columns, names and cell storage.
func (r *Record) Clear() {
	r.columns = nil
	r.names.Clear()
	r.buffers.Clear()
}

func cellInt16(b []byte) int16     { return *(*int16)(unsafe.Pointer(&b[0])) }
func cellInt32(b []byte) int32     { return *(*int32)(unsafe.Pointer(&b[0])) }
func cellInt64(b []byte) int64     { return *(*int64)(unsafe.Pointer(&b[0])) }
func cellFloat32(b []byte) float32 { return *(*float32)(unsafe.Pointer(&b[0])) }
func cellFloat64(b []byte) float64 { return *(*float64)(unsafe.Pointer(&b[0])) }

// PutCellInt64 stores v into a cell obtained from BufferGet.
func PutCellInt64(b []byte, v int64) { *(*int64)(unsafe.Pointer(&b[0])) = v }

// PutCellFloat64 stores v into a cell obtained from BufferGet.
func PutCellFloat64(b []byte, v float64) { *(*float64)(unsafe.Pointer(&b[0])) = v }

// VariantView returns the current value of a column as a borrowed tagged
// value. Null columns read as the empty view.
func (r *Record) VariantView(index int) VariantView {
	c := &r.columns[index]
	if c.IsNull() {
		return VariantView{}
	}
	buf := r.BufferGet(index)
	switch KindOf(c.typ) {
	case KindBool, KindBit:
		return view(c.typ, int64(buf[0]), 0, nil)
	case KindInt8:
		return view(c.typ, int64(int8(buf[0])), 0, nil)
	case KindUInt8:
		return view(c.typ, int64(buf[0]), 0, nil)
	case KindInt16, KindUInt16:
		return view(c.typ, int64(cellInt16(buf)), 0, nil)
	case KindInt32, KindUInt32:
		// narrow when the bridge stores 32 bit columns in 64 bit cells
		if c.bufferSize >= 8 {
			return view(c.typ, int64(int32(cellInt64(buf))), 0, nil)
		}
		return view(c.typ, int64(cellInt32(buf)), 0, nil)
	case KindInt64, KindUInt64:
		return view(c.typ, cellInt64(buf), 0, nil)
	case KindFloat32:
		return view(c.typ, 0, float64(cellFloat32(buf)), nil)
	case KindFloat64:
		return view(c.typ, 0, cellFloat64(buf), nil)
	case KindGuid:
		return view(c.typ, 0, 0, buf[:16])
	case KindBinary:
		return view(c.typ, 0, 0, buf[:c.size])
	default:
		// string, numeric and date kinds carry text payloads
		return view(c.typ, 0, 0, buf[:c.size])
	}
}

// VariantViewByName looks a column up by name; a miss yields the empty view.
func (r *Record) VariantViewByName(name string) VariantView {
	if i := r.ColumnIndexByName(name); i != -1 {
		return r.VariantView(i)
	}
	return VariantView{}
}

// VariantViews returns the whole row as borrowed values.
func (r *Record) VariantViews() []VariantView {
	out := make([]VariantView, len(r.columns))
	for i := range r.columns {
		out[i] = r.VariantView(i)
	}
	return out
}

// VariantViewsAt returns borrowed values for the listed columns.
func (r *Record) VariantViewsAt(indexes []int) []VariantView {
	out := make([]VariantView, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, r.VariantView(i))
	}
	return out
}

// Variant returns an owned copy of one column value.
func (r *Record) Variant(index int) Variant { return r.VariantView(index).Clone() }

// Variants returns the whole row as owned values.
func (r *Record) Variants() []Variant {
	out := make([]Variant, len(r.columns))
	for i := range r.columns {
		out[i] = r.Variant(i)
	}
	return out
}

// Arguments materializes name and value pairs for the row in column order.
func (r *Record) Arguments() Arguments {
	out := make(Arguments, 0, len(r.columns))
	for i := range r.columns {
		out = append(out, Argument{Name: r.Name(i), Value: r.VariantView(i)})
	}
	return out
}

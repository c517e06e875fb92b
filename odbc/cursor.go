// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbc

import (
	"fmt"
	"unsafe"

	"github.com/unidb/unidb"
	"github.com/unidb/unidb/odbc/api"
)

// Cursor drives one statement against its database. The driver fills bound
// fixed cells in place on every SQLFetch; variable width cells are pulled
// afterwards with SQLGetData, growing the record buffer when the reported
// length does not fit.
type Cursor struct {
	state  uint32
	h      api.SQLHSTMT
	db     *Database
	record unidb.Record
	params []Parameter
	cols   []colSpec
	binds  []api.SQLLEN // per column length/indicator words the driver writes
}

// NewCursor returns a cursor attached to db.
func NewCursor(db *Database) *Cursor {
	return &Cursor{db: db, h: api.SQLHSTMT(api.SQL_NULL_HSTMT)}
}

func (c *Cursor) Record() *unidb.Record { return &c.record }
func (c *Cursor) ColumnCount() int      { return c.record.ColumnCount() }
func (c *Cursor) IsOpen() bool          { return c.h != api.SQLHSTMT(api.SQL_NULL_HSTMT) }
func (c *Cursor) IsValidRow() bool      { return c.state&unidb.CursorStateRow != 0 }

// ParameterCount returns the number of placeholders in the prepared
// statement.
func (c *Cursor) ParameterCount() int { return len(c.params) }

// Prepare compiles sql into a fresh statement, closing any active one.
func (c *Cursor) Prepare(sql string) error {
	c.Close()
	var out api.SQLHANDLE
	ret := api.SQLAllocHandle(api.SQL_HANDLE_STMT, api.SQLHANDLE(c.db.hdbc), &out)
	if IsError(ret) {
		return NewError("SQLAllocHandle", c.db.hdbc)
	}
	h := api.SQLHSTMT(out)
	updateHandleCount(api.SQL_HANDLE_STMT, 1)

	b := api.StringToUTF16(sql)
	ret = api.SQLPrepare(h, (*api.SQLWCHAR)(unsafe.Pointer(&b[0])), api.SQL_NTS)
	if IsError(ret) {
		defer releaseHandle(h)
		return NewError("SQLPrepare", h)
	}
	ps, err := ExtractParameters(h)
	if err != nil {
		defer releaseHandle(h)
		return err
	}
	c.h = h
	c.params = ps
	return nil
}

// PrepareValues prepares sql and binds values starting at parameter 1.
func (c *Cursor) PrepareValues(sql string, values []unidb.VariantView) error {
	if err := c.Prepare(sql); err != nil {
		return err
	}
	return c.BindAt(1, values)
}

// errNotPrepared reports an operation on a cursor with no statement.
var errNotPrepared = fmt.Errorf("cursor has no prepared statement")

// BindParameter binds one value to a placeholder (1-based).
func (c *Cursor) BindParameter(index int, v unidb.VariantView) error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	if index < 1 {
		return fmt.Errorf("parameter index %d out of range", index)
	}
	for index > len(c.params) {
		c.params = append(c.params, Parameter{})
	}
	return c.params[index-1].BindValue(c.h, index-1, v)
}

// BindAt binds values to consecutive parameters starting at offset
// (1-based).
func (c *Cursor) BindAt(offset int, values []unidb.VariantView) error {
	for i, v := range values {
		if err := c.BindParameter(offset+i, v); err != nil {
			return err
		}
	}
	return nil
}

// Bind binds values starting at parameter 1.
func (c *Cursor) Bind(values []unidb.VariantView) error { return c.BindAt(1, values) }

// Open executes the prepared statement and positions the cursor on its
// first row. Column cells are discovered and bound on the first open.
func (c *Cursor) Open() error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	ret := api.SQLExecute(c.h)
	if ret != api.SQL_NO_DATA && IsError(ret) {
		return NewError("SQLExecute", c.h)
	}
	if c.record.Empty() {
		var n api.SQLSMALLINT
		if ret := api.SQLNumResultCols(c.h, &n); IsError(ret) {
			return NewError("SQLNumResultCols", c.h)
		}
		if err := c.addColumns(int(n)); err != nil {
			return err
		}
	}
	return c.fetch()
}

// OpenQuery prepares sql and opens it in one call.
func (c *Cursor) OpenQuery(sql string) error {
	if err := c.Prepare(sql); err != nil {
		return err
	}
	return c.Open()
}

// Next advances to the following row and refills the record.
func (c *Cursor) Next() error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	return c.fetch()
}

func (c *Cursor) fetch() error {
	ret := api.SQLFetch(c.h)
	if ret == api.SQL_NO_DATA {
		c.state &^= unidb.CursorStateRow
		return nil
	}
	if IsError(ret) {
		c.state &^= unidb.CursorStateRow
		return NewError("SQLFetch", c.h)
	}
	if err := c.update(0, c.record.ColumnCount()); err != nil {
		return err
	}
	c.state |= unidb.CursorStateRow
	return nil
}

// Execute runs a prepared non-select statement and records the affected row
// count; the statement stays prepared so the next parameter set can be
// bound.
func (c *Cursor) Execute() error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	ret := api.SQLExecute(c.h)
	if ret == api.SQL_NO_DATA {
		c.db.lastChange = 0
		return nil
	}
	if IsError(ret) {
		return NewError("SQLExecute", c.h)
	}
	var n api.SQLLEN
	if ret = api.SQLRowCount(c.h, &n); !IsError(ret) {
		c.db.lastChange = int64(n)
	}
	return nil
}

// Close frees the statement handle and clears the record. Variant views
// read from the record are invalid afterwards.
func (c *Cursor) Close() {
	if c.IsOpen() {
		releaseHandle(c.h)
		c.h = api.SQLHSTMT(api.SQL_NULL_HSTMT)
	}
	c.state = 0
	c.params = nil
	c.cols = nil
	c.binds = nil
	c.record.Clear()
}

// update refreshes record cells for columns in [from, to) after a fetch.
// Bound fixed cells were already written by the driver, so only their null
// and size state needs reading back; variable cells are pulled here.
func (c *Cursor) update(from, to int) error {
	for i := from; i < to; i++ {
		col := c.record.Column(i)
		if c.cols[i].fixed != 0 {
			if c.binds[i] == api.SQL_NULL_DATA {
				col.SetNull(true)
				continue
			}
			col.SetNull(false)
			col.SetSize(int(c.binds[i]))
			continue
		}
		if err := c.updateBlob(i); err != nil {
			return err
		}
	}
	return nil
}

// updateBlob pulls one variable width column of the current row, growing
// the derived buffer and fetching again whenever the driver reports more
// data than the cell can hold.
func (c *Cursor) updateBlob(i int) error {
	col := c.record.Column(i)
	spec := c.cols[i]
	nul := 0
	switch spec.cc {
	case api.SQL_C_CHAR:
		nul = 1
	case api.SQL_C_WCHAR:
		nul = 2
	}
	buf := c.record.BufferGet(i)
	got := 0
	for {
		var ind api.SQLLEN
		ret := api.SQLGetData(c.h, api.SQLUSMALLINT(i+1), spec.cc,
			api.SQLPOINTER(unsafe.Pointer(&buf[got])), api.SQLLEN(len(buf)-got), &ind)
		if ret == api.SQL_SUCCESS {
			if got == 0 && ind == api.SQL_NULL_DATA {
				col.SetNull(true)
				return nil
			}
			got += int(ind)
			break
		}
		if ret == api.SQL_SUCCESS_WITH_INFO {
			// data truncated; the indicator tells how much was left before
			// this chunk when the driver knows
			chunk := len(buf) - got - nul
			got += chunk
			need := 2 * (len(buf) + 1)
			if ind != api.SQL_NO_TOTAL {
				need = got + (int(ind) - chunk) + nul
			}
			buf = c.record.Resize(i, uint32(need))
			continue
		}
		return NewError("SQLGetData", c.h)
	}
	col.SetNull(false)
	col.SetState(unidb.StateMemory, 0)
	if spec.wide {
		return c.convertWide(i, got)
	}
	col.SetSize(got)
	return nil
}

// convertWide rewrites a fetched UTF-16 payload as UTF-8 in place of the
// column's cell.
func (c *Cursor) convertWide(i, got int) error {
	buf := c.record.BufferGet(i)
	u := make([]uint16, got/2)
	for j := range u {
		u[j] = uint16(buf[2*j]) | uint16(buf[2*j+1])<<8
	}
	s := utf16toutf8(u)
	col := c.record.Column(i)
	if len(s)+1 > col.SizeBuffer() {
		buf = c.record.Resize(i, uint32(len(s))+1)
	}
	copy(buf, s)
	buf[len(s)] = 0
	col.SetSize(len(s))
	return nil
}

// VariantView returns the current value of one column.
func (c *Cursor) VariantView(index int) unidb.VariantView { return c.record.VariantView(index) }

// VariantViewByName returns the current value of a named column, the empty
// view when the name is unknown.
func (c *Cursor) VariantViewByName(name string) unidb.VariantView {
	return c.record.VariantViewByName(name)
}

// VariantViews returns the whole row as borrowed values.
func (c *Cursor) VariantViews() []unidb.VariantView { return c.record.VariantViews() }

// Arguments returns the row as ordered name and value pairs.
func (c *Cursor) Arguments() unidb.Arguments { return c.record.Arguments() }

// Index returns the column index for a name, -1 when not found.
func (c *Cursor) Index(name string) int { return c.record.ColumnIndexByName(name) }

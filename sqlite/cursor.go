// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite/lib"

	"github.com/unidb/unidb"
)

// Cursor drives one statement against its database: prepare, bind, step and
// refill the record from the engine's column accessors. One result set at a
// time; a cursor must not outlive its database.
type Cursor struct {
	state  uint32
	stmt   uintptr
	db     *Database
	record unidb.Record

	// C heap copies of bound text and blob parameters; the engine keeps
	// pointing at them until the bindings are cleared.
	bound []uintptr
}

// NewCursor returns a cursor attached to db.
func NewCursor(db *Database) *Cursor { return &Cursor{db: db} }

func (c *Cursor) Record() *unidb.Record { return &c.record }
func (c *Cursor) ColumnCount() int      { return c.record.ColumnCount() }
func (c *Cursor) IsOpen() bool          { return c.stmt != 0 }
func (c *Cursor) IsValidRow() bool      { return c.state&unidb.CursorStateRow != 0 }

// ParameterCount returns the number of placeholders in the prepared
// statement.
func (c *Cursor) ParameterCount() int {
	return int(sqlite3.Xsqlite3_bind_parameter_count(c.db.tls, c.stmt))
}

// ParameterName returns the name of a placeholder (1-based), "" for
// positional ones.
func (c *Cursor) ParameterName(index int) string {
	return goString(sqlite3.Xsqlite3_bind_parameter_name(c.db.tls, c.stmt, int32(index)))
}

// Prepare compiles sql into a fresh statement, closing any active one.
func (c *Cursor) Prepare(sql string) error {
	c.Close()
	stmt, _, err := c.db.prepare(sql)
	if err != nil {
		return err
	}
	if stmt == 0 {
		return errors.New("empty statement")
	}
	c.stmt = stmt
	return nil
}

// PrepareValues prepares sql and binds values starting at parameter 1.
func (c *Cursor) PrepareValues(sql string, values []unidb.VariantView) error {
	if err := c.Prepare(sql); err != nil {
		return err
	}
	return c.BindAt(1, values)
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

// errNotPrepared reports an operation on a cursor with no statement.
var errNotPrepared = errors.New("cursor has no prepared statement")

// BindParameter binds one value to a placeholder (1-based). The value's
// group decides the native binding: integers and booleans bind as int64,
// decimals as double, strings and dates as text, binary (guids included) as
// blob; the empty view binds null.
func (c *Cursor) BindParameter(index int, v unidb.VariantView) error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	tls := c.db.tls
	var rc int32
	// booleans carry the integer group as well, so stripping Boolean along
	// with Signed and Number folds them into the integer arm
	switch v.Group() &^ (unidb.GroupSigned | unidb.GroupNumber | unidb.GroupBoolean) {
	case 0:
		rc = sqlite3.Xsqlite3_bind_null(tls, c.stmt, int32(index))
	case unidb.GroupInteger:
		rc = sqlite3.Xsqlite3_bind_int64(tls, c.stmt, int32(index), v.AsInt64())
	case unidb.GroupDecimal:
		rc = sqlite3.Xsqlite3_bind_double(tls, c.stmt, int32(index), v.AsFloat64())
	case unidb.GroupString, unidb.GroupDate:
		p, err := cBytes(tls, v.Bytes())
		if err != nil {
			return err
		}
		c.bound = append(c.bound, p)
		rc = sqlite3.Xsqlite3_bind_text(tls, c.stmt, int32(index), p, int32(v.Length()), 0)
	case unidb.GroupBinary:
		p, err := cBytes(tls, v.Bytes())
		if err != nil {
			return err
		}
		c.bound = append(c.bound, p)
		rc = sqlite3.Xsqlite3_bind_blob(tls, c.stmt, int32(index), p, int32(v.Length()), 0)
	default:
		return fmt.Errorf("type mismatch binding parameter %d (type %#x)", index, v.Type())
	}
	if rc != sqlite3.SQLITE_OK {
		return c.db.newError("sqlite3_bind", rc)
	}
	return nil
}

// Open steps the prepared statement onto its first row. Columns are
// discovered on the first open of a statement, after the engine has stepped,
// so the runtime type fallback sees real row data.
func (c *Cursor) Open() error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	return c.step("sqlite3_step")
}

// OpenQuery prepares sql and opens it in one call.
func (c *Cursor) OpenQuery(sql string) error {
	return c.OpenQueryFunc(sql, nil)
}

// OpenQueryFunc prepares sql, hands the raw statement handle to prep when
// one is given, then opens the result. The callback may bind parameters or
// adjust the statement before the first step.
func (c *Cursor) OpenQueryFunc(sql string, prep func(stmt uintptr) error) error {
	if err := c.Prepare(sql); err != nil {
		return err
	}
	if prep != nil {
		if err := prep(c.stmt); err != nil {
			return err
		}
	}
	return c.step("sqlite3_step")
}

// Next advances to the following row and refills the record.
func (c *Cursor) Next() error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	return c.step("sqlite3_step")
}

func (c *Cursor) step(apiName string) error {
	rc := sqlite3.Xsqlite3_step(c.db.tls, c.stmt)
	switch rc {
	case sqlite3.SQLITE_ROW:
		if c.record.Empty() {
			c.bindColumns()
		}
		c.update(0, c.record.ColumnCount())
		c.state |= unidb.CursorStateRow
	case sqlite3.SQLITE_DONE, sqlite3.SQLITE_OK:
		if c.record.Empty() {
			c.bindColumns()
		}
		c.state &^= unidb.CursorStateRow
	default:
		c.state &^= unidb.CursorStateRow
		return c.db.newError(apiName, rc)
	}
	return nil
}

// Execute runs a prepared non-select statement, then clears bindings and
// resets it so the next parameter set can be bound.
func (c *Cursor) Execute() error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	rc := sqlite3.Xsqlite3_step(c.db.tls, c.stmt)
	if rc != sqlite3.SQLITE_DONE && rc != sqlite3.SQLITE_ROW {
		return c.db.newError("sqlite3_step", rc)
	}
	return c.Reset()
}

// Reset clears bindings and rewinds the statement, keeping the compiled
// text.
func (c *Cursor) Reset() error {
	if !c.IsOpen() {
		return errNotPrepared
	}
	if rc := sqlite3.Xsqlite3_clear_bindings(c.db.tls, c.stmt); rc != sqlite3.SQLITE_OK {
		return c.db.newError("sqlite3_clear_bindings", rc)
	}
	c.freeBound()
	if rc := sqlite3.Xsqlite3_reset(c.db.tls, c.stmt); rc != sqlite3.SQLITE_OK {
		return c.db.newError("sqlite3_reset", rc)
	}
	return nil
}

// Close finalizes the statement and clears the record. Variant views read
// from the record are invalid afterwards.
func (c *Cursor) Close() {
	if c.stmt != 0 {
		c.db.finalize(c.stmt)
		c.stmt = 0
	}
	c.freeBound()
	c.state = 0
	c.record.Clear()
}

func (c *Cursor) freeBound() {
	for _, p := range c.bound {
		cFree(c.db.tls, p)
	}
	c.bound = nil
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

// declType maps the first characters of an uppercased declared column type
// to the value type columns are stored with.
func declType(b []byte) uint32 {
	switch b[0] {
	case 'B': // BINARY | BLOB | BIT | BIGINT
		if b[2] == 'N' || b[1] == 'L' {
			return unidb.TypeBinary
		}
		return unidb.TypeInt64
	case 'D': // DECIMAL | DATE | DATETIME | DOUBLE
		if b[1] == 'E' || b[1] == 'O' {
			return unidb.TypeFloat64
		}
		return unidb.TypeUtf8
	case 'F':
		return unidb.TypeFloat64
	case 'G':
		return unidb.TypeBinary
	case 'I':
		return unidb.TypeInt64
	case 'N': // NVARCHAR | NUMERIC
		if b[1] == 'V' {
			return unidb.TypeUtf8
		}
		return unidb.TypeFloat64
	case 'R':
		return unidb.TypeFloat64
	case 'S':
		return unidb.TypeInt64
	case 'T': // TEXT | TIME | TINYINT
		return unidb.TypeUtf8
	case 'U': // UTCTIME | UTCDATETIME
		return unidb.TypeUtf8
	case 'V': // VARCHAR | VARBINARY
		if b[3] == 'C' {
			return unidb.TypeUtf8
		}
		return unidb.TypeBinary
	}
	return unidb.TypeUtf8
}

// declCType maps the same prefix to the representation hint recorded on the
// column, which keeps the declared width information the storage type
// collapses away.
func declCType(b []byte) uint32 {
	switch b[0] {
	case 'B':
		if b[2] == 'T' {
			return unidb.TypeBit // BIT
		}
		if b[2] == 'G' {
			return unidb.TypeInt64 // BIGINT
		}
		return unidb.TypeBinary
	case 'D':
		if b[1] == 'E' {
			return unidb.TypeFloat64 // DECIMAL
		}
		if b[1] == 'O' {
			return unidb.TypeFloat64 // DOUBLE
		}
		return unidb.TypeDateTime
	case 'F':
		return unidb.TypeFloat64
	case 'G':
		return unidb.TypeGuid
	case 'I':
		return unidb.TypeInt32
	case 'N':
		if b[1] == 'V' {
			return unidb.TypeUtf8
		}
		return unidb.TypeFloat64
	case 'R':
		return unidb.TypeFloat64
	case 'S':
		return unidb.TypeInt16
	case 'T':
		if b[2] == 'M' {
			return unidb.TypeTime // TIME
		}
		if b[2] == 'N' {
			return unidb.TypeInt8 // TINYINT
		}
		return unidb.TypeUtf8
	case 'U':
		return unidb.TypeInt64
	case 'V':
		if b[3] == 'C' {
			return unidb.TypeUtf8
		}
		return unidb.TypeBinary
	}
	return unidb.TypeUtf8
}

// upper4 uppercases the first four bytes of a declared type name, NUL padded
// past its end.
func upper4(s string) []byte {
	b := []byte{0, 0, 0, 0}
	for i := 0; i < 4 && i < len(s); i++ {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		b[i] = ch
	}
	return b
}

// Initial payload sizes for variable columns.
const (
	startBufferText   = 256
	startBufferBinary = 32
)

// bindColumns discovers the result columns of the prepared statement and
// appends matching cells to the record. The declared type decides the
// storage when the table carries one; otherwise the runtime column type of
// the first row is used.
func (c *Cursor) bindColumns() {
	tls := c.db.tls
	count := sqlite3.Xsqlite3_column_count(tls, c.stmt)
	for i := int32(0); i < count; i++ {
		typ := unidb.TypeUnknown
		ctype := uint32(0)
		if decl := goString(sqlite3.Xsqlite3_column_decltype(tls, c.stmt, i)); decl != "" {
			b := upper4(decl)
			typ = declType(b)
			ctype = declCType(b)
		} else {
			switch sqlite3.Xsqlite3_column_type(tls, c.stmt, i) {
			case sqlite3.SQLITE_TEXT:
				typ = unidb.TypeUtf8
			case sqlite3.SQLITE_BLOB:
				typ = unidb.TypeBinary
			case sqlite3.SQLITE_FLOAT:
				typ = unidb.TypeFloat64
			case sqlite3.SQLITE_NULL:
				typ = unidb.TypeUtf8
			default:
				typ = unidb.TypeInt64
			}
		}
		name := goString(sqlite3.Xsqlite3_column_name(tls, c.stmt, i))
		size := unidb.ValueSize(typ)
		start := uint32(0)
		if size == 0 {
			if unidb.IsBinary(typ) {
				start = startBufferBinary
			} else {
				start = startBufferText
			}
		}
		c.record.AddFull(typ, ctype, size, start, name, "", 0)
	}
}

// update refills record cells for columns in [from, to) from the current
// row.
func (c *Cursor) update(from, to int) {
	tls := c.db.tls
	for i := from; i < to; i++ {
		col := c.record.Column(i)
		if sqlite3.Xsqlite3_column_type(tls, c.stmt, int32(i)) == sqlite3.SQLITE_NULL {
			col.SetNull(true)
			continue
		}
		col.SetNull(false)
		switch unidb.KindOf(col.Type()) {
		case unidb.KindInt64:
			unidb.PutCellInt64(c.record.BufferGet(i), int64(sqlite3.Xsqlite3_column_int64(tls, c.stmt, int32(i))))
		case unidb.KindFloat64:
			unidb.PutCellFloat64(c.record.BufferGet(i), sqlite3.Xsqlite3_column_double(tls, c.stmt, int32(i)))
		case unidb.KindUtf8:
			p := sqlite3.Xsqlite3_column_text(tls, c.stmt, int32(i))
			size := int(sqlite3.Xsqlite3_column_bytes(tls, c.stmt, int32(i)))
			buf := c.record.BufferGet(i)
			if size+1 > col.SizeBuffer() {
				buf = c.record.Resize(i, uint32(size)+1)
			}
			copy(buf, goBytes(p, size))
			buf[size] = 0
			col.SetSize(size)
		case unidb.KindBinary:
			p := sqlite3.Xsqlite3_column_blob(tls, c.stmt, int32(i))
			size := int(sqlite3.Xsqlite3_column_bytes(tls, c.stmt, int32(i)))
			buf := c.record.BufferGet(i)
			if size > col.SizeBuffer() {
				buf = c.record.Resize(i, uint32(size))
			}
			copy(buf, goBytes(p, size))
			col.SetSize(size)
		}
	}
}

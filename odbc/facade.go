// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbc

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
	"go.uber.org/atomic"

	"github.com/unidb/unidb"
)

// CursorHandle is the reference counted shell placing a concrete cursor
// behind the driver-agnostic contract.
type CursorHandle struct {
	cursor *Cursor
	ref    atomic.Int32
}

var _ unidb.Cursor = (*CursorHandle)(nil)

func newCursorHandle(db *Database) *CursorHandle {
	h := &CursorHandle{cursor: NewCursor(db)}
	h.ref.Store(1)
	return h
}

func (h *CursorHandle) QueryInterface(iid *ole.GUID) (interface{}, error) {
	return nil, unidb.ErrNoInterface
}

func (h *CursorHandle) AddReference() int32 { return h.ref.Inc() }

// Release drops one reference; at zero the statement handle is closed.
func (h *CursorHandle) Release() int32 {
	n := h.ref.Dec()
	if n == 0 {
		h.cursor.Close()
	}
	return n
}

func (h *CursorHandle) ColumnCount() int { return h.cursor.ColumnCount() }
func (h *CursorHandle) IsValidRow() bool { return h.cursor.IsValidRow() }
func (h *CursorHandle) IsOpen() bool { return h.cursor.IsOpen() }

func (h *CursorHandle) Prepare(sql string) error { return h.cursor.Prepare(sql) }

func (h *CursorHandle) PrepareValues(sql string, values []unidb.VariantView) error {
	return h.cursor.PrepareValues(sql, values)
}

func (h *CursorHandle) Bind(values []unidb.VariantView) error { return h.cursor.Bind(values) }

func (h *CursorHandle) BindAt(offset int, values []unidb.VariantView) error {
	return h.cursor.BindAt(offset, values)
}

func (h *CursorHandle) Open() error { return h.cursor.Open() }
func (h *CursorHandle) OpenQuery(sql string) error { return h.cursor.OpenQuery(sql) }
func (h *CursorHandle) Next() error { return h.cursor.Next() }
func (h *CursorHandle) Execute() error { return h.cursor.Execute() }
func (h *CursorHandle) Record() *unidb.Record { return h.cursor.Record() }
func (h *CursorHandle) Close() { h.cursor.Close() }

// DatabaseHandle is the reference counted shell for a concrete database.
type DatabaseHandle struct {
	database *Database
	name     string
	dialect  string
	ref      atomic.Int32
}

var _ unidb.Database = (*DatabaseHandle)(nil)

// NewDatabaseHandle returns an unconnected database behind the common
// contract. The dialect steers dialect specific questions such as the last
// generated insert key.
func NewDatabaseHandle(name, dialect string) *DatabaseHandle {
	h := &DatabaseHandle{database: New(), name: name, dialect: dialect}
	h.ref.Store(1)
	return h
}

// QueryInterface hands out a fresh cursor for IIDCursor.
func (h *DatabaseHandle) QueryInterface(iid *ole.GUID) (interface{}, error) {
	if ole.IsEqualGUID(iid, unidb.IIDCursor) {
		return newCursorHandle(h.database), nil
	}
	return nil, unidb.ErrNoInterface
}

func (h *DatabaseHandle) AddReference() int32 { return h.ref.Inc() }

// Release drops one reference; at zero the connection is closed.
func (h *DatabaseHandle) Release() int32 {
	n := h.ref.Dec()
	if n == 0 {
		h.database.Close()
	}
	return n
}

func (h *DatabaseHandle) Name() string    { return h.name }
func (h *DatabaseHandle) Dialect() string { return h.dialect }

func (h *DatabaseHandle) Set(option string, value unidb.VariantView) error {
	if option != "dialect" {
		return fmt.Errorf("unknown option %q", option)
	}
	h.dialect = value.AsString()
	return nil
}

func (h *DatabaseHandle) Open(connect string) error { return h.database.Open(connect) }

func (h *DatabaseHandle) OpenArguments(args unidb.Arguments) error {
	return h.database.OpenArguments(args)
}

func (h *DatabaseHandle) Execute(sql string) error { return h.database.Execute(sql) }

func (h *DatabaseHandle) Ask(sql string) (unidb.Variant, error) { return h.database.Ask(sql) }

func (h *DatabaseHandle) Cursor() (unidb.Cursor, error) {
	return newCursorHandle(h.database), nil
}

func (h *DatabaseHandle) ChangeCount() (int64, error) { return h.database.ChangeCount(), nil }

func (h *DatabaseHandle) InsertKey() (int64, error) { return h.database.InsertKey(h.dialect) }

func (h *DatabaseHandle) Close() error {
	h.database.Close()
	return nil
}

// Erase closes the database and abandons the handle regardless of its
// reference count.
func (h *DatabaseHandle) Erase() {
	h.database.Close()
	h.ref.Store(0)
}

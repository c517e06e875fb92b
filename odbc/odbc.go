// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package odbc bridges databases reached over the ODBC call-level interface
// into the unidb record and cursor model. Unlike the step oriented sqlite
// engine, this driver wants result buffers bound up front: the bridge binds
// the record's fixed cells as fetch targets and pulls variable width values
// with SQLGetData after every fetch.
package odbc

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/unidb/unidb"
	"github.com/unidb/unidb/odbc/api"
)

// Database owns the environment and connection handles for one ODBC
// connection. Non-owner instances wrap handles managed elsewhere and never
// free them.
type Database struct {
	flags      uint32
	henv       api.SQLHENV
	hdbc       api.SQLHDBC
	lastChange int64
}

// New returns an unconnected database; handles are allocated on first Open.
func New() *Database { return &Database{} }

// Wrap adopts externally managed environment and connection handles. When
// owner is false Close leaves them alone.
func Wrap(henv api.SQLHENV, hdbc api.SQLHDBC, owner bool) *Database {
	flags := unidb.DatabaseConnected
	if owner {
		flags |= unidb.DatabaseOwner
	}
	return &Database{flags: flags, henv: henv, hdbc: hdbc}
}

func (d *Database) IsOwner() bool { return d.flags&unidb.DatabaseOwner != 0 }
func (d *Database) IsOpen() bool {
	return d.flags&unidb.DatabaseConnected != 0 && d.hdbc != api.SQLHDBC(api.SQL_NULL_HDBC)
}

// SetFlags sets and clears state flag bits in one update.
func (d *Database) SetFlags(set, clear uint32) {
	d.flags |= set
	d.flags &^= clear
}

// allocate creates the environment and connection handles and selects ODBC
// v3 behavior. Open calls it on demand.
func (d *Database) allocate() error {
	if d.hdbc != api.SQLHDBC(api.SQL_NULL_HDBC) {
		return nil
	}
	var out api.SQLHANDLE
	in := api.SQLHANDLE(api.SQL_NULL_HANDLE)
	ret := api.SQLAllocHandle(api.SQL_HANDLE_ENV, in, &out)
	if IsError(ret) {
		return NewError("SQLAllocHandle", api.SQLHENV(in))
	}
	d.henv = api.SQLHENV(out)
	updateHandleCount(api.SQL_HANDLE_ENV, 1)

	ret = api.SQLSetEnvUIntPtrAttr(d.henv, api.SQL_ATTR_ODBC_VERSION, api.SQL_OV_ODBC3, 0)
	if IsError(ret) {
		defer d.deallocate()
		return NewError("SQLSetEnvUIntPtrAttr", d.henv)
	}

	ret = api.SQLAllocHandle(api.SQL_HANDLE_DBC, api.SQLHANDLE(d.henv), &out)
	if IsError(ret) {
		defer d.deallocate()
		return NewError("SQLAllocHandle", d.henv)
	}
	d.hdbc = api.SQLHDBC(out)
	updateHandleCount(api.SQL_HANDLE_DBC, 1)
	return nil
}

// Open connects using an ODBC driver connection string.
func (d *Database) Open(connect string) error {
	if err := d.allocate(); err != nil {
		return err
	}
	b := api.StringToUTF16(connect)
	ret := api.SQLDriverConnect(d.hdbc, 0,
		(*api.SQLWCHAR)(unsafe.Pointer(&b[0])), api.SQLSMALLINT(len(b)),
		nil, 0, nil, api.SQL_DRIVER_NOPROMPT)
	if IsError(ret) {
		return NewError("SQLDriverConnect", d.hdbc)
	}
	d.SetFlags(unidb.DatabaseOwner|unidb.DatabaseConnected, 0)
	return nil
}

// OpenArguments connects using the "file" option as the driver connection
// string; "create" has no meaning for this driver and is ignored.
func (d *Database) OpenArguments(args unidb.Arguments) error {
	connect := args.String("file")
	if connect == "" {
		return errors.New("missing file argument")
	}
	return d.Open(connect)
}

// Execute runs a statement that produces no result set and records the
// affected row count.
func (d *Database) Execute(sql string) error {
	var out api.SQLHANDLE
	ret := api.SQLAllocHandle(api.SQL_HANDLE_STMT, api.SQLHANDLE(d.hdbc), &out)
	if IsError(ret) {
		return NewError("SQLAllocHandle", d.hdbc)
	}
	h := api.SQLHSTMT(out)
	updateHandleCount(api.SQL_HANDLE_STMT, 1)
	defer releaseHandle(h)

	b := api.StringToUTF16(sql)
	ret = api.SQLExecDirect(h, (*api.SQLWCHAR)(unsafe.Pointer(&b[0])), api.SQL_NTS)
	if ret == api.SQL_NO_DATA {
		d.lastChange = 0
		return nil
	}
	if IsError(ret) {
		return NewError("SQLExecDirect", h)
	}
	var c api.SQLLEN
	if ret = api.SQLRowCount(h, &c); !IsError(ret) {
		d.lastChange = int64(c)
	}
	return nil
}

// Ask runs a statement expected to return one scalar and hands it back as an
// owned variant. With no result row the variant is null.
func (d *Database) Ask(sql string) (unidb.Variant, error) {
	c := NewCursor(d)
	defer c.Close()
	if err := c.Prepare(sql); err != nil {
		return unidb.Variant{}, err
	}
	if err := c.Open(); err != nil {
		return unidb.Variant{}, err
	}
	if !c.IsValidRow() {
		return unidb.Variant{}, nil
	}
	return c.Record().Variant(0), nil
}

// ChangeCount reports the rows affected by the last executed statement.
func (d *Database) ChangeCount() int64 { return d.lastChange }

// InsertKey asks the server for the last generated key. The question is
// dialect specific, so the caller has to say which dialect it talks.
func (d *Database) InsertKey(dialect string) (int64, error) {
	var sql string
	switch dialect {
	case "mssql", "sqlserver":
		sql = "SELECT @@IDENTITY"
	case "mysql":
		sql = "SELECT LAST_INSERT_ID()"
	default:
		return 0, fmt.Errorf("insert key not supported for dialect %q", dialect)
	}
	v, err := d.Ask(sql)
	if err != nil {
		return 0, err
	}
	return v.AsInt64(), nil
}

// Release detaches and returns the connection handle without closing it.
func (d *Database) Release() api.SQLHDBC {
	h := d.hdbc
	d.hdbc = api.SQLHDBC(api.SQL_NULL_HDBC)
	d.flags = 0
	return h
}

// Close disconnects and frees the handles when this database owns them.
func (d *Database) Close() {
	if !d.IsOwner() {
		d.hdbc = api.SQLHDBC(api.SQL_NULL_HDBC)
		d.henv = api.SQLHENV(api.SQL_NULL_HENV)
		d.flags = 0
		return
	}
	if d.IsOpen() {
		api.SQLDisconnect(d.hdbc)
	}
	d.deallocate()
	d.flags = 0
}

func (d *Database) deallocate() {
	if d.hdbc != api.SQLHDBC(api.SQL_NULL_HDBC) {
		releaseHandle(d.hdbc)
		d.hdbc = api.SQLHDBC(api.SQL_NULL_HDBC)
	}
	if d.henv != api.SQLHENV(api.SQL_NULL_HENV) {
		releaseHandle(d.henv)
		d.henv = api.SQLHENV(api.SQL_NULL_HENV)
	}
}

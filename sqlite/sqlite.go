// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite bridges the embedded sqlite engine into the unidb record
// and cursor model. It talks to the engine through its C level interface
// (prepare, bind, step, column) as provided by modernc.org/sqlite/lib.
package sqlite

import (
	"fmt"

	"go.uber.org/atomic"
	"modernc.org/libc"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/unidb/unidb"
)

// Stats counts live native handles, mostly for tests and leak hunting.
var Stats struct {
	ConnCount atomic.Int64
	StmtCount atomic.Int64
}

// Error carries the engine's native diagnostic for one failed call.
type Error struct {
	APIName string
	Code    int32
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.APIName, e.Message, e.Code)
}

// Database wraps one sqlite connection. The zero value is usable; Open
// connects it. Non-owner instances wrap a connection managed elsewhere and
// never close it.
type Database struct {
	tls   *libc.TLS
	db    uintptr
	flags uint32
}

// New returns an unconnected database.
func New() *Database { return &Database{} }

// Wrap adopts an externally managed connection. When owner is false Close
// leaves the native handle alone.
func Wrap(tls *libc.TLS, db uintptr, owner bool) *Database {
	flags := unidb.DatabaseConnected
	if owner {
		flags |= unidb.DatabaseOwner
	}
	return &Database{tls: tls, db: db, flags: flags}
}

func (d *Database) IsOwner() bool { return d.flags&unidb.DatabaseOwner != 0 }
func (d *Database) IsOpen() bool  { return d.flags&unidb.DatabaseConnected != 0 && d.db != 0 }

// SetFlags sets and clears state flag bits in one update.
func (d *Database) SetFlags(set, clear uint32) {
	d.flags |= set
	d.flags &^= clear
}

func (d *Database) newError(apiName string, code int32) error {
	msg := "unknown error"
	if d.db != 0 {
		if s := goString(sqlite3.Xsqlite3_errmsg(d.tls, d.db)); s != "" {
			msg = s
		}
	}
	return &Error{APIName: apiName, Code: code, Message: msg}
}

// Open opens the database file, creating the thread environment on first
// use. Zero flags means read-write with the engine fully serialized; pass
// sqlite3.SQLITE_OPEN_CREATE as well to create a missing file.
func (d *Database) Open(fileName string, flags int32) error {
	if d.db != 0 {
		d.Close()
	}
	if flags == 0 {
		flags = sqlite3.SQLITE_OPEN_READWRITE | sqlite3.SQLITE_OPEN_FULLMUTEX
	}
	if d.tls == nil {
		d.tls = libc.NewTLS()
	}
	namep, err := cString(d.tls, fileName)
	if err != nil {
		return err
	}
	defer cFree(d.tls, namep)
	outp, err := cAlloc(d.tls, 8)
	if err != nil {
		return err
	}
	defer cFree(d.tls, outp)

	rc := sqlite3.Xsqlite3_open_v2(d.tls, namep, outp, flags, 0)
	d.db = derefPtr(outp)
	if rc != sqlite3.SQLITE_OK {
		err := d.newError("sqlite3_open_v2", rc)
		if d.db != 0 {
			sqlite3.Xsqlite3_close(d.tls, d.db)
			d.db = 0
		}
		return err
	}
	Stats.ConnCount.Inc()
	d.SetFlags(unidb.DatabaseOwner|unidb.DatabaseConnected, 0)
	return nil
}

// Execute runs sql against the connection. Statements separated by
// semicolons run in order; none may produce rows the caller cares about.
func (d *Database) Execute(sql string) error {
	for sql != "" {
		stmt, tail, err := d.prepare(sql)
		if err != nil {
			return err
		}
		if stmt == 0 { // trailing whitespace or comment
			sql = tail
			continue
		}
		rc := sqlite3.Xsqlite3_step(d.tls, stmt)
		if rc != sqlite3.SQLITE_DONE && rc != sqlite3.SQLITE_ROW {
			err := d.newError("sqlite3_step", rc)
			d.finalize(stmt)
			return err
		}
		if err := d.finalize(stmt); err != nil {
			return err
		}
		sql = tail
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

// InsertKey returns the row identifier generated by the last insert.
func (d *Database) InsertKey() int64 {
	return int64(sqlite3.Xsqlite3_last_insert_rowid(d.tls, d.db))
}

// ChangeCount returns the number of rows touched by the last statement.
func (d *Database) ChangeCount() int64 {
	return int64(sqlite3.Xsqlite3_changes(d.tls, d.db))
}

// Release detaches and returns the native connection without closing it.
func (d *Database) Release() uintptr {
	db := d.db
	d.db = 0
	d.flags = 0
	return db
}

// Close closes the connection when this database owns it.
func (d *Database) Close() {
	if d.db != 0 && d.IsOwner() {
		sqlite3.Xsqlite3_close(d.tls, d.db)
		Stats.ConnCount.Dec()
	}
	d.db = 0
	d.SetFlags(0, unidb.DatabaseOwner|unidb.DatabaseConnected)
	if d.tls != nil {
		d.tls.Close()
		d.tls = nil
	}
}

// prepare compiles the first statement in sql and returns the handle plus
// the unconsumed tail.
func (d *Database) prepare(sql string) (stmt uintptr, tail string, err error) {
	sqlp, err := cString(d.tls, sql)
	if err != nil {
		return 0, "", err
	}
	defer cFree(d.tls, sqlp)
	outp, err := cAlloc(d.tls, 16) // statement and tail out-parameters
	if err != nil {
		return 0, "", err
	}
	defer cFree(d.tls, outp)

	rc := sqlite3.Xsqlite3_prepare_v2(d.tls, d.db, sqlp, int32(len(sql))+1, outp, outp+8)
	if rc != sqlite3.SQLITE_OK {
		return 0, "", d.newError("sqlite3_prepare_v2", rc)
	}
	stmt = derefPtr(outp)
	if p := derefPtr(outp + 8); p != 0 {
		tail = sql[int(p-sqlp):]
	}
	if stmt != 0 {
		Stats.StmtCount.Inc()
	}
	return stmt, tail, nil
}

func (d *Database) finalize(stmt uintptr) error {
	rc := sqlite3.Xsqlite3_finalize(d.tls, stmt)
	Stats.StmtCount.Dec()
	if rc != sqlite3.SQLITE_OK {
		return d.newError("sqlite3_finalize", rc)
	}
	return nil
}

// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import (
	"errors"

	ole "github.com/go-ole/go-ole"
)

// Component identifiers recognized by QueryInterface.
var (
	IIDCursor   = ole.NewGUID("{98E01E5F-08E7-47D3-B048-DC9F70B97B66}")
	IIDDatabase = ole.NewGUID("{902B5974-EEBC-4EA2-90E7-5C43A2BABFA8}")
)

// ErrNoInterface is returned by QueryInterface for an unknown identifier.
var ErrNoInterface = errors.New("no such interface")

// Database state flags.
const (
	DatabaseOwner     uint32 = 0x01 // database owns the native connection
	DatabaseConnected uint32 = 0x02 // connection is open
)

// Cursor state flags.
const (
	CursorStateRow    uint32 = 0x01 // cursor is positioned on a row
	CursorStateMemory uint32 = 0x02 // variable cells hold the full value
)

// Unknown is the reference counted base every driver handle implements.
// Release drops a reference and tears the handle down when the count
// reaches zero; the counts are not meant to be shared across goroutines
// without outside serialization.
type Unknown interface {
	// QueryInterface obtains a related component; asking a Database for
	// IIDCursor yields a fresh cursor against it.
	QueryInterface(iid *ole.GUID) (interface{}, error)
	AddReference() int32
	Release() int32
}

// Cursor drives one statement's lifecycle against one database. It moves
// through prepare, bind, open and next; the record it owns is refilled on
// every row. Cursors are not safe to copy; hold them behind the interface.
type Cursor interface {
	Unknown

	ColumnCount() int
	IsValidRow() bool

	// Prepare compiles sql into a fresh statement, closing any open one.
	Prepare(sql string) error
	// PrepareValues prepares sql and binds values starting at parameter 1.
	PrepareValues(sql string, values []VariantView) error
	// Bind binds values to parameters starting at 1.
	Bind(values []VariantView) error
	// BindAt binds values to parameters starting at offset (1-based).
	BindAt(offset int, values []VariantView) error
	// Open steps the prepared statement onto its first row.
	Open() error
	// OpenQuery prepares sql and opens it in one call.
	OpenQuery(sql string) error
	// Next advances to the following row and refills the record.
	Next() error
	// Execute runs a prepared non-select statement and resets it for the
	// next parameter set.
	Execute() error

	IsOpen() bool
	Record() *Record
	Close()
}

// Database owns one native connection and hands out cursors against it.
type Database interface {
	Unknown

	Name() string
	Dialect() string
	// Set changes a database option; "dialect" is the one recognized name.
	Set(option string, value VariantView) error

	// Open connects using a driver connection string or file path.
	Open(connect string) error
	// OpenArguments connects using named options; "file" holds the path or
	// connection string and "create" asks for create-if-missing.
	OpenArguments(args Arguments) error
	// Execute runs a statement that produces no result set.
	Execute(sql string) error
	// Ask runs a statement expected to yield a single scalar and returns it.
	Ask(sql string) (Variant, error)
	// Cursor returns a new cursor against this database.
	Cursor() (Cursor, error)
	// ChangeCount reports the rows affected by the last statement.
	ChangeCount() (int64, error)
	// InsertKey reports the last auto generated row identifier.
	InsertKey() (int64, error)

	Close() error
	// Erase closes the database and drops the handle regardless of its
	// reference count.
	Erase()
}

// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbc

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/unidb/unidb"
	"github.com/unidb/unidb/odbc/api"
)

// colSpec is the fetch plan for one result column: how the record cell is
// typed, which C type the driver writes and whether the payload arrives as
// UTF-16 and needs converting.
type colSpec struct {
	typ    uint32 // value type recorded on the column
	ctype  uint32 // representation hint recorded on the column
	cc     api.SQLSMALLINT
	fixed  uint32 // fixed cell size, 0 for variable width
	start  uint32 // initial derived payload for variable width
	wide   bool
}

func describeColumn(h api.SQLHSTMT, idx int, namebuf []uint16) (namelen int, sqltype api.SQLSMALLINT, size api.SQLULEN, ret api.SQLRETURN) {
	var l, decimal, nullable api.SQLSMALLINT
	ret = api.SQLDescribeCol(h, api.SQLUSMALLINT(idx+1),
		(*api.SQLWCHAR)(unsafe.Pointer(&namebuf[0])),
		api.SQLSMALLINT(len(namebuf)), &l,
		&sqltype, &size, &decimal, &nullable)
	return int(l), sqltype, size, ret
}

// Initial payload sizes for variable columns whose declared width is unknown
// or unbounded.
const (
	startBufferText   = 256
	startBufferBinary = 32
	maxDeclaredWidth  = 1024
)

func variableStart(size api.SQLULEN, fallback uint32) uint32 {
	if size == 0 || size > maxDeclaredWidth {
		return fallback
	}
	return uint32(size) + 1
}

// specFromSQLType maps the declared SQL type of a column to its fetch plan.
// Integer widths below 64 bit all travel as SQL_C_LONG in a four byte cell,
// keeping the declared kind on the column; date kinds are fetched as text.
func specFromSQLType(sqltype api.SQLSMALLINT, size api.SQLULEN) (colSpec, error) {
	switch sqltype {
	case api.SQL_BIT:
		return colSpec{typ: unidb.TypeBool, ctype: unidb.TypeBit, cc: api.SQL_C_BIT, fixed: 1}, nil
	case api.SQL_TINYINT:
		return colSpec{typ: unidb.TypeInt8, ctype: unidb.TypeInt32, cc: api.SQL_C_LONG, fixed: 4}, nil
	case api.SQL_SMALLINT:
		return colSpec{typ: unidb.TypeInt16, ctype: unidb.TypeInt32, cc: api.SQL_C_LONG, fixed: 4}, nil
	case api.SQL_INTEGER:
		return colSpec{typ: unidb.TypeInt32, ctype: unidb.TypeInt32, cc: api.SQL_C_LONG, fixed: 4}, nil
	case api.SQL_BIGINT:
		return colSpec{typ: unidb.TypeInt64, ctype: unidb.TypeInt64, cc: api.SQL_C_SBIGINT, fixed: 8}, nil
	case api.SQL_NUMERIC, api.SQL_DECIMAL, api.SQL_FLOAT, api.SQL_REAL, api.SQL_DOUBLE:
		return colSpec{typ: unidb.TypeFloat64, ctype: unidb.TypeFloat64, cc: api.SQL_C_DOUBLE, fixed: 8}, nil
	case api.SQL_GUID:
		return colSpec{typ: unidb.TypeGuid, ctype: unidb.TypeGuid, cc: api.SQL_C_BINARY, fixed: 16}, nil
	case api.SQL_TYPE_TIMESTAMP, api.SQL_TIMESTAMP:
		return colSpec{typ: unidb.TypeDateTime, ctype: unidb.TypeUtf8, cc: api.SQL_C_CHAR, start: 32}, nil
	case api.SQL_TYPE_DATE:
		return colSpec{typ: unidb.TypeDate, ctype: unidb.TypeUtf8, cc: api.SQL_C_CHAR, start: 32}, nil
	case api.SQL_TYPE_TIME, api.SQL_TIME:
		return colSpec{typ: unidb.TypeTime, ctype: unidb.TypeUtf8, cc: api.SQL_C_CHAR, start: 32}, nil
	case api.SQL_CHAR, api.SQL_VARCHAR:
		return colSpec{typ: unidb.TypeUtf8, ctype: unidb.TypeUtf8, cc: api.SQL_C_CHAR, start: variableStart(size, startBufferText)}, nil
	case api.SQL_LONGVARCHAR:
		return colSpec{typ: unidb.TypeUtf8, ctype: unidb.TypeUtf8, cc: api.SQL_C_CHAR, start: startBufferText}, nil
	case api.SQL_WCHAR, api.SQL_WVARCHAR:
		return colSpec{typ: unidb.TypeUtf8, ctype: unidb.TypeWString, cc: api.SQL_C_WCHAR, start: variableStart(size, startBufferText), wide: true}, nil
	case api.SQL_WLONGVARCHAR:
		return colSpec{typ: unidb.TypeUtf8, ctype: unidb.TypeWString, cc: api.SQL_C_WCHAR, start: startBufferText, wide: true}, nil
	case api.SQL_BINARY, api.SQL_VARBINARY:
		return colSpec{typ: unidb.TypeBinary, ctype: unidb.TypeBinary, cc: api.SQL_C_BINARY, start: variableStart(size, startBufferBinary)}, nil
	case api.SQL_LONGVARBINARY:
		return colSpec{typ: unidb.TypeBinary, ctype: unidb.TypeBinary, cc: api.SQL_C_BINARY, start: startBufferBinary}, nil
	default:
		return colSpec{}, fmt.Errorf("unsupported column type %d", sqltype)
	}
}

// addColumns discovers count result columns, appends matching cells to the
// record and binds every fixed cell's address, together with its length
// word, as the driver's fetch target. Variable width columns stay unbound
// and are pulled with SQLGetData after each fetch.
func (c *Cursor) addColumns(count int) error {
	if count < 1 {
		return errors.New("statement did not create a result set")
	}
	c.cols = make([]colSpec, count)
	c.binds = make([]api.SQLLEN, count)
	namebuf := make([]uint16, 150)
	for i := 0; i < count; i++ {
		namelen, sqltype, size, ret := describeColumn(c.h, i, namebuf)
		if ret == api.SQL_SUCCESS_WITH_INFO && namelen > len(namebuf) {
			// try again with bigger buffer
			namebuf = make([]uint16, namelen)
			namelen, sqltype, size, ret = describeColumn(c.h, i, namebuf)
		}
		if IsError(ret) {
			return NewError("SQLDescribeCol", c.h)
		}
		if namelen > len(namebuf) {
			return errors.New("failed to allocate column name buffer")
		}
		spec, err := specFromSQLType(sqltype, size)
		if err != nil {
			return err
		}
		c.cols[i] = spec
		name := api.UTF16ToString(namebuf[:namelen])
		state := uint32(0)
		if spec.fixed == 0 {
			state = unidb.StateBlob
		}
		c.record.AddFull(spec.typ, spec.ctype, spec.fixed, spec.start, name, "", state)
	}
	// The record's fixed region is final once every column is added; only
	// then are cell addresses stable enough to hand to the driver.
	for i := 0; i < count; i++ {
		if c.cols[i].fixed == 0 {
			continue
		}
		buf := c.record.BufferGet(i)
		ret := api.SQLBindCol(c.h, api.SQLUSMALLINT(i+1), c.cols[i].cc,
			api.SQLPOINTER(unsafe.Pointer(&buf[0])), api.SQLLEN(len(buf)), &c.binds[i])
		if IsError(ret) {
			return NewError("SQLBindCol", c.h)
		}
	}
	return nil
}

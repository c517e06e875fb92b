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

// Parameter remembers the description of one statement parameter and owns
// the buffer bound for its current value.
type Parameter struct {
	SQLType     api.SQLSMALLINT
	Decimal     api.SQLSMALLINT
	Size        api.SQLULEN
	Data        interface{} // keeps the bound buffer away from the gc
	Ind         api.SQLLEN  // length/indicator word the driver reads at execute
	isDescribed bool
}

// BindValue binds v to the parameter at idx (0-based here, 1-based on the
// wire). The value's group picks the C and SQL types: integers and booleans
// travel as int64, decimals as double, strings and dates as wide text,
// binary values (guids included) as bytes; the empty view binds null.
func (p *Parameter) BindValue(h api.SQLHSTMT, idx int, v unidb.VariantView) error {
	var ctype, sqltype, decimal api.SQLSMALLINT
	var size api.SQLULEN
	var buflen, plen api.SQLLEN
	var buf unsafe.Pointer
	// booleans carry the integer group as well, so stripping Boolean along
	// with Signed and Number folds them into the integer arm
	switch v.Group() &^ (unidb.GroupSigned | unidb.GroupNumber | unidb.GroupBoolean) {
	case 0:
		var b byte
		ctype = api.SQL_C_BIT
		p.Data = &b
		buf = unsafe.Pointer(&b)
		plen = api.SQL_NULL_DATA
		sqltype = api.SQL_BIT
		size = 1
	case unidb.GroupInteger:
		d := v.AsInt64()
		ctype = api.SQL_C_SBIGINT
		p.Data = &d
		buf = unsafe.Pointer(&d)
		sqltype = api.SQL_BIGINT
	case unidb.GroupDecimal:
		d := v.AsFloat64()
		ctype = api.SQL_C_DOUBLE
		p.Data = &d
		buf = unsafe.Pointer(&d)
		sqltype = api.SQL_DOUBLE
	case unidb.GroupString, unidb.GroupDate:
		ctype = api.SQL_C_WCHAR
		b := api.StringToUTF16(v.Str())
		p.Data = &b[0]
		buf = unsafe.Pointer(&b[0])
		l := len(b)
		l -= 1 // remove terminating 0
		size = api.SQLULEN(l)
		l *= 2 // every char takes 2 bytes
		buflen = api.SQLLEN(l)
		plen = buflen
		sqltype = api.SQL_WCHAR
	case unidb.GroupBinary:
		ctype = api.SQL_C_BINARY
		b := make([]byte, len(v.Bytes())+1)
		n := copy(b, v.Bytes())
		p.Data = &b[0]
		buf = unsafe.Pointer(&b[0])
		buflen = api.SQLLEN(n)
		plen = buflen
		size = api.SQLULEN(n)
		sqltype = api.SQL_BINARY
	default:
		return fmt.Errorf("type mismatch binding parameter %d (type %#x)", idx+1, v.Type())
	}
	if p.isDescribed {
		sqltype = p.SQLType
		decimal = p.Decimal
		size = p.Size
	}
	p.Ind = plen
	ret := api.SQLBindParameter(h, api.SQLUSMALLINT(idx+1),
		api.SQL_PARAM_INPUT, ctype, sqltype, size, decimal,
		api.SQLPOINTER(buf), buflen, &p.Ind)
	if IsError(ret) {
		return NewError("SQLBindParameter", h)
	}
	return nil
}

// ExtractParameters counts the statement's parameters and, where the driver
// can describe them, remembers their declared types.
func ExtractParameters(h api.SQLHSTMT) ([]Parameter, error) {
	var n, nullable api.SQLSMALLINT
	ret := api.SQLNumParams(h, &n)
	if IsError(ret) {
		return nil, NewError("SQLNumParams", h)
	}
	if n <= 0 {
		// no parameters
		return nil, nil
	}
	ps := make([]Parameter, n)
	for i := range ps {
		p := &ps[i]
		ret = api.SQLDescribeParam(h, api.SQLUSMALLINT(i+1),
			&p.SQLType, &p.Size, &p.Decimal, &nullable)
		if IsError(ret) {
			// not every driver implements SQLDescribeParam
			continue
		}
		p.isDescribed = true
	}
	return ps, nil
}

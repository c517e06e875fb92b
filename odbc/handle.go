// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbc

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/unidb/unidb/odbc/api"
)

// Stats counts live driver handles by type.
var Stats struct {
	EnvCount  atomic.Int64
	ConnCount atomic.Int64
	StmtCount atomic.Int64
}

func updateHandleCount(handleType api.SQLSMALLINT, change int64) {
	switch handleType {
	case api.SQL_HANDLE_ENV:
		Stats.EnvCount.Add(change)
	case api.SQL_HANDLE_DBC:
		Stats.ConnCount.Add(change)
	case api.SQL_HANDLE_STMT:
		Stats.StmtCount.Add(change)
	default:
		panic(fmt.Errorf("unexpected handle type %d", handleType))
	}
}

func ToHandleAndType(handle interface{}) (h api.SQLHANDLE, ht api.SQLSMALLINT) {
	switch v := handle.(type) {
	case api.SQLHENV:
		if v == api.SQLHENV(api.SQL_NULL_HANDLE) {
			ht = 0
		} else {
			ht = api.SQL_HANDLE_ENV
		}
		h = api.SQLHANDLE(v)
	case api.SQLHDBC:
		ht = api.SQL_HANDLE_DBC
		h = api.SQLHANDLE(v)
	case api.SQLHSTMT:
		ht = api.SQL_HANDLE_STMT
		h = api.SQLHANDLE(v)
	default:
		panic(fmt.Errorf("unexpected handle type %T", v))
	}
	return h, ht
}

func releaseHandle(handle interface{}) error {
	h, ht := ToHandleAndType(handle)
	ret := api.SQLFreeHandle(ht, h)
	if ret == api.SQL_INVALID_HANDLE {
		return fmt.Errorf("SQLFreeHandle(%d, %v) returns SQL_INVALID_HANDLE", ht, h)
	}
	if IsError(ret) {
		return NewError("SQLFreeHandle", handle)
	}
	updateHandleCount(ht, -1)
	return nil
}

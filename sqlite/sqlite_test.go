// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidb/unidb"
)

func openTestDatabase(t *testing.T) *DatabaseHandle {
	t.Helper()
	db := NewDatabaseHandle("test", "sqlite")
	args := unidb.Arguments{}.
		Append("file", unidb.StringView(filepath.Join(t.TempDir(), "test.db"))).
		Append("create", unidb.BoolView(true))
	require.NoError(t, db.OpenArguments(args))
	t.Cleanup(func() { db.Release() })
	return db
}

func TestRoundTrip(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE t(a INTEGER, b TEXT)"))

	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Release()

	require.NoError(t, cur.Prepare("INSERT INTO t VALUES (?,?)"))
	require.NoError(t, cur.Bind([]unidb.VariantView{unidb.Int64View(1), unidb.StringView("hello")}))
	require.NoError(t, cur.Execute())
	n, err := db.ChangeCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	key1, err := db.InsertKey()
	require.NoError(t, err)

	require.NoError(t, cur.Bind([]unidb.VariantView{unidb.Int64View(2), unidb.StringView("world")}))
	require.NoError(t, cur.Execute())
	n, err = db.ChangeCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	key2, err := db.InsertKey()
	require.NoError(t, err)
	assert.Greater(t, key2, key1)

	require.NoError(t, cur.Prepare("SELECT a,b FROM t ORDER BY a"))
	require.NoError(t, cur.Open())
	require.True(t, cur.IsValidRow())

	rec := cur.Record()
	assert.Equal(t, 2, cur.ColumnCount())
	v := rec.VariantView(0)
	assert.Equal(t, unidb.KindInt64, v.Kind())
	assert.Equal(t, int64(1), v.Int64())
	v = rec.VariantViewByName("b")
	assert.Equal(t, unidb.KindUtf8, v.Kind())
	assert.Equal(t, 5, v.Length())
	assert.Equal(t, "hello", v.Str())

	require.NoError(t, cur.Next())
	require.True(t, cur.IsValidRow())
	assert.Equal(t, int64(2), rec.VariantView(0).Int64())
	assert.Equal(t, "world", rec.VariantViewByName("b").Str())

	require.NoError(t, cur.Next())
	assert.False(t, cur.IsValidRow())

	cur.Close()
	assert.False(t, cur.IsOpen())
}

func TestBlobGrowth(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE blobs(v TEXT)"))

	long := strings.Repeat("x", 1000)
	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Release()
	require.NoError(t, cur.PrepareValues("INSERT INTO blobs VALUES (?)", []unidb.VariantView{unidb.StringView(long)}))
	require.NoError(t, cur.Execute())

	require.NoError(t, cur.OpenQuery("SELECT v FROM blobs"))
	require.True(t, cur.IsValidRow())
	rec := cur.Record()
	v := rec.VariantView(0)
	assert.Equal(t, 1000, v.Length())
	assert.Equal(t, long, v.Str())
	// reading the long value must have grown the derived buffer past the
	// value plus its terminator, and the buffer header records the new size
	assert.GreaterOrEqual(t, rec.Column(0).SizeBuffer(), 1001)
	assert.GreaterOrEqual(t, unidb.BufferSize(rec.BufferGetDetached(0)), uint32(1001))
}

func TestNullHandling(t *testing.T) {
	db := openTestDatabase(t)
	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Release()

	require.NoError(t, cur.OpenQuery("SELECT NULL, 7"))
	require.True(t, cur.IsValidRow())
	rec := cur.Record()

	v := rec.VariantView(0)
	assert.True(t, v.IsNull())
	assert.Equal(t, unidb.KindUnknown, v.Kind())

	v = rec.VariantView(1)
	assert.Equal(t, unidb.KindInt64, v.Kind())
	assert.Equal(t, int64(7), v.Int64())
}

func TestAsk(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE t(a INTEGER)"))
	require.NoError(t, db.Execute("INSERT INTO t VALUES (1); INSERT INTO t VALUES (2)"))

	v, err := db.Ask("SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	assert.Equal(t, unidb.KindInt64, v.Kind())
	assert.Equal(t, int64(2), v.Int64())
}

func TestNameLookupMiss(t *testing.T) {
	db := openTestDatabase(t)
	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Release()

	require.NoError(t, cur.OpenQuery("SELECT 1 AS a"))
	rec := cur.Record()
	assert.Equal(t, -1, rec.ColumnIndexByName("nope"))
	v := rec.VariantViewByName("nope")
	assert.True(t, v.IsNull())
	assert.Equal(t, unidb.KindUnknown, v.Kind())
}

func TestParameterKinds(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE k(a INTEGER, b DOUBLE, c TEXT, d BLOB)"))

	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Release()
	blob := []byte{0x00, 0xff}
	require.NoError(t, cur.PrepareValues("INSERT INTO k VALUES (?,?,?,?)", []unidb.VariantView{
		unidb.Int64View(1),
		unidb.Float64View(2.5),
		unidb.StringView("s"),
		unidb.BinaryView(blob),
	}))
	require.NoError(t, cur.Execute())

	require.NoError(t, cur.OpenQuery("SELECT a,b,c,d FROM k"))
	require.True(t, cur.IsValidRow())
	rec := cur.Record()
	assert.Equal(t, int64(1), rec.VariantView(0).Int64())
	assert.Equal(t, 2.5, rec.VariantView(1).Float64())
	assert.Equal(t, "s", rec.VariantView(2).Str())
	v := rec.VariantView(3)
	assert.Equal(t, unidb.KindBinary, v.Kind())
	assert.Equal(t, blob, v.Bytes())
}

func TestBindBool(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE flags(v INTEGER)"))
	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Release()

	require.NoError(t, cur.PrepareValues("INSERT INTO flags VALUES (?)", []unidb.VariantView{unidb.BoolView(true)}))
	require.NoError(t, cur.Execute())

	require.NoError(t, cur.OpenQuery("SELECT v FROM flags"))
	require.True(t, cur.IsValidRow())
	assert.Equal(t, int64(1), cur.Record().VariantView(0).Int64())
}

func TestBindNull(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE t(a)"))
	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Release()
	require.NoError(t, cur.PrepareValues("INSERT INTO t VALUES (?)", []unidb.VariantView{unidb.NullView()}))
	require.NoError(t, cur.Execute())

	require.NoError(t, cur.OpenQuery("SELECT a FROM t"))
	require.True(t, cur.IsValidRow())
	assert.True(t, cur.Record().VariantView(0).IsNull())
}

func TestCursorReset(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE t(a INTEGER)"))

	c := NewCursor(dbBackend(db))
	defer c.Close()
	require.NoError(t, c.Prepare("INSERT INTO t VALUES (:val)"))
	assert.Equal(t, 1, c.ParameterCount())
	assert.Equal(t, ":val", c.ParameterName(1))

	require.NoError(t, c.BindParameter(1, unidb.Int64View(5)))
	require.NoError(t, c.Execute())
	require.NoError(t, c.Reset())
	require.NoError(t, c.BindParameter(1, unidb.Int64View(6)))
	require.NoError(t, c.Execute())

	v, err := db.Ask("SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int64())
}

func TestQueryInterface(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE t(a INTEGER)"))

	obj, err := db.QueryInterface(unidb.IIDCursor)
	require.NoError(t, err)
	cur, ok := obj.(unidb.Cursor)
	require.True(t, ok)
	defer cur.Release()
	require.NoError(t, cur.OpenQuery("SELECT COUNT(*) FROM t"))
	assert.True(t, cur.IsValidRow())

	_, err = db.QueryInterface(unidb.IIDDatabase)
	assert.ErrorIs(t, err, unidb.ErrNoInterface)
}

func TestDeclaredTypeMapping(t *testing.T) {
	db := openTestDatabase(t)
	require.NoError(t, db.Execute("CREATE TABLE d(i INT, f FLOAT, v VARCHAR(20), g GUID)"))
	require.NoError(t, db.Execute("INSERT INTO d VALUES (1, 1.5, 'v', x'00112233445566778899aabbccddeeff')"))

	cur, err := db.Cursor()
	require.NoError(t, err)
	defer cur.Release()
	require.NoError(t, cur.OpenQuery("SELECT i, f, v, g FROM d"))
	rec := cur.Record()

	// declared INT stores as int64 with the 32 bit hint kept on the column
	assert.Equal(t, unidb.TypeInt64, rec.Column(0).Type())
	assert.Equal(t, unidb.TypeInt32, rec.Column(0).CType())
	assert.Equal(t, unidb.TypeFloat64, rec.Column(1).Type())
	assert.Equal(t, unidb.TypeUtf8, rec.Column(2).Type())
	assert.Equal(t, unidb.TypeBinary, rec.Column(3).Type())
	assert.Equal(t, unidb.TypeGuid, rec.Column(3).CType())

	assert.Equal(t, int64(1), rec.VariantView(0).Int64())
	assert.Equal(t, 16, rec.VariantView(3).Length())
}

func TestSetDialect(t *testing.T) {
	db := NewDatabaseHandle("d", "")
	assert.NoError(t, db.Set("dialect", unidb.StringView("sqlite")))
	assert.Equal(t, "sqlite", db.Dialect())
	assert.Error(t, db.Set("bogus", unidb.StringView("x")))
}

// dbBackend digs the concrete backend out of a handle for white box tests.
func dbBackend(h *DatabaseHandle) *Database { return h.database }

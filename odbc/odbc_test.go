// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbc

import (
	"os"
	"testing"

	"github.com/unidb/unidb"
)

// Live tests need a configured data source, for example
//
//	UNIDB_ODBC_CONNECT="driver={SQL Server};server=...;database=unidbtest;" go test
//
// and are skipped otherwise.
func openLiveDatabase(t *testing.T) *DatabaseHandle {
	t.Helper()
	connect := os.Getenv("UNIDB_ODBC_CONNECT")
	if connect == "" {
		t.Skip("UNIDB_ODBC_CONNECT is not set")
	}
	db := NewDatabaseHandle("live", os.Getenv("UNIDB_ODBC_DIALECT"))
	if err := db.Open(connect); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Release() })
	return db
}

func TestLiveParameterRoundTrip(t *testing.T) {
	db := openLiveDatabase(t)
	db.Execute("DROP TABLE unidb_param_test")
	if err := db.Execute("CREATE TABLE unidb_param_test (a BIGINT, b FLOAT, c VARCHAR(20), d VARBINARY(20))"); err != nil {
		t.Fatal(err)
	}
	defer db.Execute("DROP TABLE unidb_param_test")

	cur, err := db.Cursor()
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Release()

	blob := []byte{0x00, 0xff}
	err = cur.PrepareValues("INSERT INTO unidb_param_test (a,b,c,d) VALUES (?,?,?,?)", []unidb.VariantView{
		unidb.Int64View(1),
		unidb.Float64View(2.5),
		unidb.StringView("s"),
		unidb.BinaryView(blob),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := cur.Execute(); err != nil {
		t.Fatal(err)
	}
	if n, _ := db.ChangeCount(); n != 1 {
		t.Errorf("ChangeCount = %d, want 1", n)
	}

	if err := cur.OpenQuery("SELECT a,b,c,d FROM unidb_param_test"); err != nil {
		t.Fatal(err)
	}
	if !cur.IsValidRow() {
		t.Fatal("no row returned")
	}
	rec := cur.Record()
	if v := rec.VariantView(0); v.Kind() != unidb.KindInt64 || v.Int64() != 1 {
		t.Errorf("column a = kind %d value %d", v.Kind(), v.Int64())
	}
	if v := rec.VariantView(1); v.Float64() != 2.5 {
		t.Errorf("column b = %v, want 2.5", v.Float64())
	}
	if v := rec.VariantView(2); v.Str() != "s" {
		t.Errorf("column c = %q, want s", v.Str())
	}
	if v := rec.VariantView(3); v.Kind() != unidb.KindBinary || string(v.Bytes()) != string(blob) {
		t.Errorf("column d = kind %d bytes %x", v.Kind(), v.Bytes())
	}
}

func TestLiveNullHandling(t *testing.T) {
	db := openLiveDatabase(t)
	cur, err := db.Cursor()
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Release()
	if err := cur.OpenQuery("SELECT NULL, 7"); err != nil {
		t.Fatal(err)
	}
	if !cur.IsValidRow() {
		t.Fatal("no row returned")
	}
	rec := cur.Record()
	if v := rec.VariantView(0); !v.IsNull() {
		t.Error("column 0 should read as null")
	}
	if v := rec.VariantView(1); v.AsInt64() != 7 {
		t.Errorf("column 1 = %d, want 7", v.AsInt64())
	}
}

func TestLiveBlobGrowth(t *testing.T) {
	db := openLiveDatabase(t)
	db.Execute("DROP TABLE unidb_blob_test")
	if err := db.Execute("CREATE TABLE unidb_blob_test (v VARCHAR(2000))"); err != nil {
		t.Fatal(err)
	}
	defer db.Execute("DROP TABLE unidb_blob_test")

	long := make([]byte, 1000)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	cur, err := db.Cursor()
	if err != nil {
		t.Fatal(err)
	}
	defer cur.Release()
	err = cur.PrepareValues("INSERT INTO unidb_blob_test VALUES (?)", []unidb.VariantView{
		unidb.StringView(string(long)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := cur.Execute(); err != nil {
		t.Fatal(err)
	}

	if err := cur.OpenQuery("SELECT v FROM unidb_blob_test"); err != nil {
		t.Fatal(err)
	}
	if !cur.IsValidRow() {
		t.Fatal("no row returned")
	}
	v := cur.Record().VariantView(0)
	if v.Length() != 1000 {
		t.Errorf("length = %d, want 1000", v.Length())
	}
	if v.Str() != string(long) {
		t.Error("payload mismatch after blob growth")
	}
}

// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveAddAlignsAndGrows(t *testing.T) {
	var b Buffers
	off1 := b.PrimitiveAdd(TypeInt64, 8)
	off2 := b.PrimitiveAdd(TypeFloat64, 8)
	assert.Equal(t, uint32(0), off1)
	assert.Equal(t, uint32(8), off2)

	PutCellInt64(b.DataOffset(off1), 42)
	PutCellFloat64(b.DataOffset(off2), 2.5)

	// odd sized cells keep following offsets eight byte aligned
	off3 := b.PrimitiveAdd(TypeDate, 6)
	off4 := b.PrimitiveAdd(TypeInt64, 8)
	assert.Equal(t, uint32(16), off3)
	assert.Equal(t, uint32(24), off4)

	// growing past the 128 byte step must keep the old cells intact
	for i := 0; i < 40; i++ {
		b.PrimitiveAdd(TypeInt64, 8)
	}
	assert.Equal(t, int64(42), cellInt64(b.DataOffset(off1)))
	assert.Equal(t, 2.5, cellFloat64(b.DataOffset(off2)))
}

func TestDerivedAddHeader(t *testing.T) {
	var b Buffers
	idx := b.DerivedAdd(TypeUtf8, 64) // below the minimum payload
	buf := b.DerivedData(idx)
	assert.Equal(t, uint32(DerivedStartSize), BufferSize(buf))
	assert.Equal(t, TypeUtf8, BufferKind(buf))
	assert.Len(t, buf, DerivedStartSize+DerivedValueOffset)
	assert.Len(t, b.DerivedDataValue(idx), DerivedStartSize)

	idx2 := b.DerivedAdd(TypeBinary, 500)
	assert.Equal(t, uint32(1), idx2)
	assert.Equal(t, uint32(500), BufferSize(b.DerivedData(idx2)))
}

func TestDerivedResize(t *testing.T) {
	var b Buffers
	idx := b.DerivedAdd(TypeUtf8, 128)
	payload := b.DerivedDataValue(idx)
	copy(payload, "hello")

	// growing preserves header kind, updates size and copies the payload
	buf := b.DerivedResize(idx, 1001)
	require.Equal(t, uint32(1001), BufferSize(buf))
	require.Equal(t, TypeUtf8, BufferKind(buf))
	assert.Equal(t, "hello", string(b.DerivedDataValue(idx)[:5]))

	// shrinking is a no-op
	buf = b.DerivedResize(idx, 10)
	assert.Equal(t, uint32(1001), BufferSize(buf))
}

func TestBuffersClear(t *testing.T) {
	var b Buffers
	b.PrimitiveAdd(TypeInt64, 8)
	b.DerivedAdd(TypeUtf8, 128)
	b.Clear()
	assert.Empty(t, b.Data())
	idx := b.DerivedAdd(TypeBinary, 128)
	assert.Equal(t, uint32(0), idx)
}

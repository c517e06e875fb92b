// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import "encoding/binary"

// Buffers owns the cell storage for one record. Fixed width values live back
// to back in one primitive region; values without a static size each get
// their own derived buffer. A derived buffer starts with an eight byte
// header, a 32 bit payload size followed by a 32 bit kind, and the payload
// begins at DerivedValueOffset. The header offset keeps int64 and float64
// payload loads eight byte aligned.
type Buffers struct {
	size    uint32 // used bytes in the primitive region
	max     uint32 // allocated bytes in the primitive region
	fixed   []byte
	derived [][]byte
}

const (
	buffersGrowBy      = 128
	DerivedStartSize   = 128 // minimum payload for a derived buffer
	DerivedValueOffset = 8
)

// BufferSize reads the payload size from a derived buffer header.
func BufferSize(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// BufferKind reads the kind from a derived buffer header.
func BufferKind(b []byte) uint32 { return binary.LittleEndian.Uint32(b[4:]) }

func putBufferHeader(b []byte, size, kind uint32) {
	binary.LittleEndian.PutUint32(b, size)
	binary.LittleEndian.PutUint32(b[4:], kind)
}

// PrimitiveAdd reserves size bytes in the fixed region and returns the byte
// offset of the reserved cell. Cells are aligned to eight bytes.
func (b *Buffers) PrimitiveAdd(kind, size uint32) uint32 {
	off := (b.size + 7) &^ 7
	b.PrimitiveResize(kind, off+size)
	return off
}

// PrimitiveResize grows the fixed region to hold size bytes, preserving
// existing content. It never shrinks.
func (b *Buffers) PrimitiveResize(kind, size uint32) {
	if size > b.max {
		grow := size + (buffersGrowBy - size%buffersGrowBy)
		fixed := make([]byte, grow)
		copy(fixed, b.fixed[:b.size])
		b.fixed, b.max = fixed, grow
	}
	if size > b.size {
		b.size = size
	}
}

// Data returns the used part of the fixed region.
func (b *Buffers) Data() []byte { return b.fixed[:b.size] }

// DataOffset returns the fixed region starting at off.
func (b *Buffers) DataOffset(off uint32) []byte { return b.fixed[off:b.size] }

// DerivedAdd allocates a derived buffer with at least DerivedStartSize bytes
// of payload and returns its slot index.
func (b *Buffers) DerivedAdd(kind, size uint32) uint32 {
	if size < DerivedStartSize {
		size = DerivedStartSize
	}
	buf := make([]byte, size+DerivedValueOffset)
	putBufferHeader(buf, size, kind)
	b.derived = append(b.derived, buf)
	return uint32(len(b.derived) - 1)
}

// DerivedData returns the whole derived buffer at index, header included.
func (b *Buffers) DerivedData(index uint32) []byte { return b.derived[index] }

// DerivedDataValue returns the payload of the derived buffer at index.
func (b *Buffers) DerivedDataValue(index uint32) []byte {
	return b.derived[index][DerivedValueOffset:]
}

// DerivedResize grows the payload of a derived buffer to size bytes, keeping
// the kind and copying the old payload over. Shrinking is a no-op. The
// returned slice is the buffer with its header.
func (b *Buffers) DerivedResize(index, size uint32) []byte {
	old := b.derived[index]
	if size <= BufferSize(old) {
		return old
	}
	buf := make([]byte, size+DerivedValueOffset)
	copy(buf, old[:DerivedValueOffset])
	copy(buf[DerivedValueOffset:], old[DerivedValueOffset:])
	putBufferHeader(buf, size, BufferKind(old))
	b.derived[index] = buf
	return buf
}

// Clear drops all owned storage.
func (b *Buffers) Clear() {
	b.size, b.max = 0, 0
	b.fixed = nil
	b.derived = nil
}

// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import "encoding/binary"

// Names is an append-only arena for constant strings such as column names
// and aliases. Every entry is stored as a 16 bit length, the utf8 bytes and
// a NUL terminator; Add returns the offset of the first byte after the
// length prefix. Offsets stay valid until Clear.
type Names struct {
	buf []byte // entries back to back, len(buf) is the used size
	max int    // allocated size
}

const namesGrowBy = 256

// Add stores name and returns its offset in the arena.
func (n *Names) Add(name string) uint16 {
	need := len(name) + 1 + 2 // length prefix, text, NUL
	n.reserve(len(n.buf) + need)
	off := len(n.buf) + 2
	n.buf = n.buf[:len(n.buf)+need]
	binary.LittleEndian.PutUint16(n.buf[off-2:], uint16(len(name)))
	copy(n.buf[off:], name)
	n.buf[off+len(name)] = 0
	return uint16(off)
}

// Get returns the string stored at an offset previously returned by Add.
func (n *Names) Get(off uint16) string {
	l := binary.LittleEndian.Uint16(n.buf[off-2:])
	return string(n.buf[off : int(off)+int(l)])
}

// LastPosition returns the offset where the next entry will start.
func (n *Names) LastPosition() uint16 { return uint16(len(n.buf)) }

// Clear drops all stored names.
func (n *Names) Clear() { n.buf = nil; n.max = 0 }

func (n *Names) reserve(size int) {
	if size <= n.max {
		return
	}
	size += namesGrowBy - size%namesGrowBy
	b := make([]byte, len(n.buf), size)
	copy(b, n.buf)
	n.buf, n.max = b, size
}

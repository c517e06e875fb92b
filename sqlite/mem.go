// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"errors"
	"unsafe"

	"modernc.org/libc"
	ctypes "modernc.org/libc/sys/types"
)

// The sqlite library runs on an emulated C heap; strings and out-parameters
// handed to it must live there, not in Go memory. These helpers move bytes
// across that boundary.

var errOutOfMemory = errors.New("out of memory")

// cAlloc reserves n bytes on the C heap.
func cAlloc(tls *libc.TLS, n int) (uintptr, error) {
	p := libc.Xmalloc(tls, ctypes.Size_t(n))
	if p == 0 {
		return 0, errOutOfMemory
	}
	return p, nil
}

func cFree(tls *libc.TLS, p uintptr) {
	if p != 0 {
		libc.Xfree(tls, p)
	}
}

// cString copies s onto the C heap with a NUL terminator.
func cString(tls *libc.TLS, s string) (uintptr, error) {
	p, err := cAlloc(tls, len(s)+1)
	if err != nil {
		return 0, err
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(p)), len(s)+1)
	copy(b, s)
	b[len(s)] = 0
	return p, nil
}

// cBytes copies b onto the C heap; empty input still allocates one byte so
// the pointer is valid.
func cBytes(tls *libc.TLS, b []byte) (uintptr, error) {
	p, err := cAlloc(tls, len(b)+1)
	if err != nil {
		return 0, err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(p)), len(b)+1), b)
	return p, nil
}

// goBytes borrows n bytes at p; the slice is only valid until the statement
// the pointer came from moves.
func goBytes(p uintptr, n int) []byte {
	if p == 0 || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n)
}

// goString reads a NUL terminated C string, "" for the null pointer.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	return libc.GoString(p)
}

// derefPtr reads a pointer-sized out-parameter.
func derefPtr(p uintptr) uintptr { return *(*uintptr)(unsafe.Pointer(p)) }

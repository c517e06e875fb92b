// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unidb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesAddGet(t *testing.T) {
	var n Names
	names := []string{"id", "name", "created_at", "", "x"}
	offsets := make([]uint16, len(names))
	for i, s := range names {
		offsets[i] = n.Add(s)
	}
	for i, s := range names {
		assert.Equal(t, s, n.Get(offsets[i]))
	}
	// offsets are strictly increasing within one arena
	for i := 1; i < len(offsets); i++ {
		assert.Greater(t, offsets[i], offsets[i-1])
	}
}

func TestNamesGrowKeepsOffsets(t *testing.T) {
	var n Names
	type entry struct {
		s   string
		off uint16
	}
	var entries []entry
	// push the arena through several grow steps
	for i := 0; i < 200; i++ {
		s := fmt.Sprintf("column_%03d", i)
		entries = append(entries, entry{s, n.Add(s)})
	}
	for _, e := range entries {
		require.Equal(t, e.s, n.Get(e.off))
	}
}

func TestNamesLongName(t *testing.T) {
	var n Names
	long := strings.Repeat("a", 999)
	off := n.Add(long)
	assert.Equal(t, long, n.Get(off))
	assert.Equal(t, uint16(2+999+1), n.LastPosition())
}

func TestNamesClear(t *testing.T) {
	var n Names
	n.Add("first")
	n.Clear()
	assert.Equal(t, uint16(0), n.LastPosition())
	off := n.Add("second")
	assert.Equal(t, uint16(2), off)
	assert.Equal(t, "second", n.Get(off))
}

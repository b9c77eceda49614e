// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build linux

package kcov

// View is a read-only window onto the PCs recorded by one Collect call.
// It points into the trace buffer and goes stale on the next Collect or Close
// of its Handle. Reading PCs from a stale view panics.
type View struct {
	h   *Handle
	gen uint64
	pcs []uintptr
}

// Len returns the number of PCs recorded at extraction time.
func (v *View) Len() int {
	return len(v.pcs)
}

// Valid reports whether the view still refers to the current buffer contents.
func (v *View) Valid() bool {
	return v.gen == v.h.gen
}

func (v *View) At(i int) uint64 {
	v.check()
	return uint64(v.pcs[i])
}

// PCs copies the recorded PCs out of the trace buffer.
// The result stays usable after the view goes stale.
func (v *View) PCs() []uint64 {
	v.check()
	res := make([]uint64, len(v.pcs))
	for i, pc := range v.pcs {
		res[i] = uint64(pc)
	}
	return res
}

func (v *View) check() {
	if !v.Valid() {
		panic("kcov: use of a stale coverage view")
	}
}

// Copyright 2015 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package cover implements set operations on coverage PCs.
package cover

import (
	"slices"
)

type Cover map[uint64]struct{}

func (cov *Cover) Merge(raw []uint64) {
	c := *cov
	if c == nil {
		c = make(Cover)
		*cov = c
	}
	for _, pc := range raw {
		c[pc] = struct{}{}
	}
}

// MergeDiff merges raw into the cover and returns the PCs that were not present before.
func (cov *Cover) MergeDiff(raw []uint64) []uint64 {
	c := *cov
	if c == nil {
		c = make(Cover)
		*cov = c
	}
	var diff []uint64
	for _, pc := range raw {
		if _, ok := c[pc]; ok {
			continue
		}
		c[pc] = struct{}{}
		diff = append(diff, pc)
	}
	return diff
}

func (cov Cover) Len() int {
	return len(cov)
}

func (cov Cover) Contains(pc uint64) bool {
	_, ok := cov[pc]
	return ok
}

// Difference returns PCs from raw that are not in the cover, in the order of raw.
func (cov Cover) Difference(raw []uint64) []uint64 {
	var res []uint64
	for _, pc := range raw {
		if !cov.Contains(pc) {
			res = append(res, pc)
		}
	}
	return res
}

// Serialize returns the PCs in ascending order.
func (cov Cover) Serialize() []uint64 {
	res := make([]uint64, 0, len(cov))
	for pc := range cov {
		res = append(res, pc)
	}
	slices.Sort(res)
	return res
}

// Canonicalize sorts and removes duplicates in place.
func Canonicalize(raw []uint64) []uint64 {
	slices.Sort(raw)
	return slices.Compact(raw)
}

// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build linux

package kcov

import (
	"golang.org/x/sys/unix"
)

// control issues the KCOV device control requests.
// Errors are the raw errno returned by the kernel.
type control interface {
	// initTrace sets the trace buffer capacity in machine words.
	// Must precede both mmap and enable.
	initTrace(fd, words int) error
	// enable starts PC tracing for the calling thread.
	enable(fd int) error
	// disable stops tracing. Already recorded PCs are left in the buffer.
	disable(fd int) error
}

type ioctlControl struct{}

func (ioctlControl) initTrace(fd, words int) error {
	return unix.IoctlSetInt(fd, uint(kcovInitTrace), words)
}

func (ioctlControl) enable(fd int) error {
	return unix.IoctlSetInt(fd, uint(kcovEnable), kcovTracePC)
}

func (ioctlControl) disable(fd int) error {
	return unix.IoctlSetInt(fd, uint(kcovDisable), 0)
}

// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kcov

// This file defines values required for KCOV ioctl calls. More information on
// the values and their semantics can be found in the kernel documentation under
// Documentation/dev-tools/kcov.rst, or at docs.kernel.org/dev-tools/kcov.html.

import "unsafe"

const (
	wordSize = int(unsafe.Sizeof(uintptr(0)))

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNone = 0
	iocRead = 2

	kcovMagic = 'c'

	// kcovInitTrace initializes KCOV tracing.
	// #define KCOV_INIT_TRACE _IOR('c', 1, unsigned long)
	kcovInitTrace = (iocRead << iocDirShift) | (uintptr(wordSize) << iocSizeShift) |
		(kcovMagic << iocTypeShift) | (1 << iocNrShift) // 0x80086301 on 64-bit.

	// kcovEnable enables kcov for the current thread.
	// #define KCOV_ENABLE _IO('c', 100)
	kcovEnable uintptr = (iocNone << iocDirShift) | (kcovMagic << iocTypeShift) | (100 << iocNrShift) // 0x6364.

	// kcovDisable disables kcov for the current thread.
	// #define KCOV_DISABLE _IO('c', 101)
	kcovDisable uintptr = (iocNone << iocDirShift) | (kcovMagic << iocTypeShift) | (101 << iocNrShift) // 0x6365.

	kcovTracePC = 0
)

// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kcov

import (
	"errors"
	"fmt"
	"io/fs"
)

// Op names the KCOV device step that failed.
type Op string

const (
	OpOpen    Op = "open"
	OpInit    Op = "init trace"
	OpMmap    Op = "mmap"
	OpEnable  Op = "enable"
	OpDisable Op = "disable"
	OpMunmap  Op = "munmap"
	OpClose   Op = "close"
)

// Error describes a failed operation on the KCOV device.
// Err is the underlying system error (usually a unix.Errno).
type Error struct {
	Op   Op
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("kcov: %v %v: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op Op, path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return &Error{Op: op, Path: path, Err: err}
}

// Copyright 2020 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package tool contains various helper utilitites useful for implementation of command line tools.
package tool

import (
	"fmt"
	"io"
	"os"
)

// Exit statuses, see sysexits.h.
const (
	ExitFailure = 1
	ExitUsage   = 64
	ExitOSErr   = 71
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf prints the message to stderr and terminates the process with the given status.
func Exitf(code int, msg string, args ...interface{}) {
	fmt.Fprintf(stderr, msg+"\n", args...)
	exit(code)
}

func Failf(msg string, args ...interface{}) {
	Exitf(ExitFailure, msg, args...)
}

func Fail(err error) {
	Failf("%v", err)
}

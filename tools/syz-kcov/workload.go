// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

type workload struct {
	name  string
	args  []string
	desc  string
	build func(args []string) func() error
}

var workloads = []workload{
	{
		name: "hello",
		desc: `write "Hello world!" to stdout`,
		build: func([]string) func() error {
			return func() error {
				_, err := fmt.Fprintln(stdout, "Hello world!")
				return err
			}
		},
	},
	{
		name: "getpid",
		desc: "call getpid",
		build: func([]string) func() error {
			return func() error {
				unix.Getpid()
				return nil
			}
		},
	},
	{
		name: "uname",
		desc: "call uname",
		build: func([]string) func() error {
			return func() error {
				var uts unix.Utsname
				return unix.Uname(&uts)
			}
		},
	},
	{
		name: "read",
		args: []string{"PATH"},
		desc: "open, read and close the file",
		build: func(args []string) func() error {
			path := args[0]
			return func() error {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				_, err = io.Copy(io.Discard, f)
				return err
			}
		},
	},
}

var stdout io.Writer = os.Stdout

// parseWorkload returns the work to trace, "hello" if args are empty.
func parseWorkload(args []string) (func() error, error) {
	if len(args) == 0 {
		args = []string{"hello"}
	}
	for _, w := range workloads {
		if w.name != args[0] {
			continue
		}
		if len(args)-1 != len(w.args) {
			return nil, fmt.Errorf("workload %v wants %v argument(s), got %v",
				w.name, len(w.args), len(args)-1)
		}
		return w.build(args[1:]), nil
	}
	return nil, fmt.Errorf("unknown workload %q", args[0])
}

func workloadUsage(w io.Writer) {
	for _, wl := range workloads {
		usage := strings.Join(append([]string{wl.name}, wl.args...), " ")
		fmt.Fprintf(w, "  %-12v %v\n", usage, wl.desc)
	}
}

// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build linux

// Package kcov provides Go native code for collecting kernel coverage (KCOV)
// information.
//
// Typical use:
//
//	h := kcov.Open()
//	defer h.Close()
//	view := h.Collect(func() { unix.Getpid() })
//	for i := 0; i < view.Len(); i++ {
//		fmt.Printf("0x%x\n", view.At(i))
//	}
//
// Open, Collect and Close treat any device failure as fatal and terminate the
// process with EX_OSERR. Use OpenConfig to get the open error instead.
package kcov

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/google/kcovtrace/pkg/log"
	"github.com/google/kcovtrace/pkg/osutil"
	"github.com/google/kcovtrace/pkg/tool"
	"golang.org/x/sys/unix"
)

const (
	DefaultDevice = "/sys/kernel/debug/kcov"
	// DefaultCoverSize is the size of the shared trace buffer in bytes.
	DefaultCoverSize = 8 << 20
)

type Config struct {
	// Path to the KCOV debugfs file.
	Device string `json:"device"`
	// Size of the trace buffer in bytes, including the count word.
	CoverSize int `json:"cover_size"`
}

func DefaultConfig() Config {
	return Config{
		Device:    DefaultDevice,
		CoverSize: DefaultCoverSize,
	}
}

func (cfg Config) Validate() error {
	if cfg.Device == "" {
		return fmt.Errorf("kcov device path is empty")
	}
	if cfg.CoverSize < 2*wordSize || cfg.CoverSize%wordSize != 0 {
		return fmt.Errorf("bad kcov cover size %v: must be a multiple of %v and at least %v",
			cfg.CoverSize, wordSize, 2*wordSize)
	}
	return nil
}

// fail reports an unrecoverable device error and exits. Replaced in tests.
var fail = func(err error) {
	tool.Exitf(tool.ExitOSErr, "%v", err)
}

// Handle holds the KCOV device and the trace buffer shared with the kernel.
//
// A Handle supports one collection at a time and must not be used from
// multiple goroutines concurrently.
type Handle struct {
	cfg  Config
	ctl  control
	file *os.File
	fd   int
	mem  []byte
	// First word of mem: number of PCs recorded since the last reset.
	count *uintptr
	// Remaining words of mem: the recorded PCs.
	pcs []uintptr
	// Bumped on every reset and on Close, invalidates outstanding views.
	gen uint64
}

// Open opens the default KCOV device and maps its trace buffer.
// Any failure terminates the process.
func Open() *Handle {
	h, err := OpenConfig(DefaultConfig())
	if err != nil {
		fail(err)
	}
	return h
}

// OpenConfig is like Open, but uses cfg and returns errors instead of exiting.
// On failure everything acquired so far is released.
func OpenConfig(cfg Config) (*Handle, error) {
	return open(cfg, ioctlControl{})
}

func open(cfg Config, ctl control) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Handle{cfg: cfg, ctl: ctl}
	if err := h.setup(); err != nil {
		// The setup error is more important, so we ignore any potential
		// errors that result from cleaning up.
		h.release()
		return nil, err
	}
	log.Logf(1, "kcov: opened %v: %v bytes, %v entries", cfg.Device, len(h.mem), len(h.pcs))
	return h, nil
}

func (h *Handle) setup() error {
	file, err := os.OpenFile(h.cfg.Device, os.O_RDWR, 0)
	if err != nil {
		return newError(OpOpen, h.cfg.Device, err)
	}
	h.file = file
	h.fd = int(file.Fd())
	// The kernel sizes its buffer on init, so init must come before mmap.
	if err := h.ctl.initTrace(h.fd, h.cfg.CoverSize/wordSize); err != nil {
		return newError(OpInit, h.cfg.Device, err)
	}
	// Mmap buffer shared between kernel- and user-space. For more information,
	// see the Linux KCOV documentation: https://docs.kernel.org/dev-tools/kcov.html.
	mem, err := unix.Mmap(h.fd, 0, h.cfg.CoverSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return newError(OpMmap, h.cfg.Device, err)
	}
	h.mem = mem
	h.count = (*uintptr)(unsafe.Pointer(&mem[0]))
	h.pcs = unsafe.Slice((*uintptr)(unsafe.Pointer(&mem[wordSize])), len(mem)/wordSize-1)
	return nil
}

// Size returns the size of the mapped trace buffer in bytes.
func (h *Handle) Size() int {
	return len(h.mem)
}

// Capacity returns the maximum number of PCs a single collection can record.
func (h *Handle) Capacity() int {
	return len(h.pcs)
}

// Collect runs work on the current OS thread with tracing enabled and returns
// the PCs the kernel recorded meanwhile. Tracing is disabled on return, also
// when work panics.
//
// The returned view aliases the trace buffer: it is only valid until the next
// Collect or Close on h. work must not call Collect on the same handle, since
// the nested reset corrupts the outer collection. Goroutines started by work
// run on other threads and are not traced.
func (h *Handle) Collect(work func()) *View {
	if h.mem == nil {
		panic("kcov: Collect on a closed handle")
	}
	h.reset()
	h.trace(work)
	return h.view()
}

func (h *Handle) reset() {
	h.gen++
	atomic.StoreUintptr(h.count, 0)
}

func (h *Handle) trace(work func()) {
	// KCOV is per-thread, so lock goroutine to its current OS thread
	// until tracing is disabled again.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer h.enable().release()
	work()
}

func (h *Handle) view() *View {
	n := atomic.LoadUintptr(h.count)
	if n > uintptr(len(h.pcs)) {
		log.Logf(0, "kcov: recorded %v PCs, but buffer holds %v", n, len(h.pcs))
		statOverflows.Add(1)
		n = uintptr(len(h.pcs))
	}
	statCollections.Add(1)
	statPCs.Add(int(n))
	log.Logf(2, "kcov: collected %v PCs", n)
	return &View{
		h:   h,
		gen: h.gen,
		pcs: h.pcs[:n:n],
	}
}

// Close unmaps the trace buffer and closes the device.
// Both steps are attempted; a failure of either terminates the process.
// Calling Close again is a no-op.
func (h *Handle) Close() {
	if h.mem == nil && h.file == nil {
		return
	}
	if err := h.release(); err != nil {
		fail(err)
	}
	log.Logf(1, "kcov: closed %v", h.cfg.Device)
}

// release drops the mapping and the device, each at most once.
func (h *Handle) release() error {
	h.gen++
	var errs []error
	if h.mem != nil {
		if err := unix.Munmap(h.mem); err != nil {
			errs = append(errs, newError(OpMunmap, h.cfg.Device, err))
		}
		h.mem, h.count, h.pcs = nil, nil, nil
	}
	if h.file != nil {
		if err := h.file.Close(); err != nil {
			errs = append(errs, newError(OpClose, h.cfg.Device, err))
		}
		h.file, h.fd = nil, -1
	}
	return errors.Join(errs...)
}

// guard keeps tracing enabled until released.
type guard struct {
	h        *Handle
	released bool
}

func (h *Handle) enable() *guard {
	if err := h.ctl.enable(h.fd); err != nil {
		fail(newError(OpEnable, h.cfg.Device, err))
	}
	return &guard{h: h}
}

func (g *guard) release() {
	if g.released {
		return
	}
	g.released = true
	if err := g.h.ctl.disable(g.h.fd); err != nil {
		fail(newError(OpDisable, g.h.cfg.Device, err))
	}
}

// Check returns an empty string if KCOV described by cfg can be used,
// or the reason why it can't.
func Check(cfg Config) string {
	if err := osutil.IsAccessible(filepath.Dir(cfg.Device)); err != nil {
		return "debugfs is not enabled or not mounted"
	}
	if !osutil.IsExist(cfg.Device) {
		return "CONFIG_KCOV is not enabled"
	}
	h, err := OpenConfig(cfg)
	if err != nil {
		return err.Error()
	}
	if err := h.release(); err != nil {
		return err.Error()
	}
	return ""
}

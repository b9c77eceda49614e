// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build linux

// syz-kcov runs a small workload under KCOV and prints the kernel PCs it covered.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/kcovtrace/pkg/config"
	"github.com/google/kcovtrace/pkg/cover"
	"github.com/google/kcovtrace/pkg/kcov"
	"github.com/google/kcovtrace/pkg/log"
	"github.com/google/kcovtrace/pkg/osutil"
	"github.com/google/kcovtrace/pkg/stat"
	"github.com/google/kcovtrace/pkg/tool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	flagConfig = flag.String("config", "", "config file (JSON or YAML) with device and cover_size")
	flagDevice = flag.String("device", "", "kcov device path (overrides config)")
	flagSize   = flag.Int("size", 0, "trace buffer size in bytes (overrides config)")
	flagIters  = flag.Int("n", 1, "number of times to run the workload")
	flagUnique = flag.Bool("unique", false, "print sorted unique PCs of all iterations instead of raw traces")
	flagBase   = flag.String("base", "", "file with previously collected PCs to exclude from output")
	flagOutput = flag.String("output", "", "save merged coverage to this file (.xz compresses)")
	flagHTTP   = flag.String("http", "", "serve Prometheus metrics on this address until interrupted")
)

func main() {
	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "usage: %s [flags] [workload [args]]\n\nWorkloads:\n", os.Args[0])
		workloadUsage(w)
		fmt.Fprintln(w, "\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()
	cfg, err := loadConfig(*flagConfig, *flagDevice, *flagSize)
	if err != nil {
		tool.Exitf(tool.ExitUsage, "%v", err)
	}
	work, err := parseWorkload(flag.Args())
	if err != nil {
		tool.Exitf(tool.ExitUsage, "%v", err)
	}
	if *flagIters < 1 {
		tool.Exitf(tool.ExitUsage, "-n must be positive")
	}
	var base cover.Cover
	if *flagBase != "" {
		pcs, err := cover.ReadFile(*flagBase)
		if err != nil {
			tool.Fail(err)
		}
		base.Merge(pcs)
	}
	if reason := kcov.Check(cfg); reason != "" {
		tool.Exitf(tool.ExitOSErr, "kcov is not supported: %v", reason)
	}

	h, err := kcov.OpenConfig(cfg)
	if err != nil {
		tool.Exitf(tool.ExitOSErr, "%v", err)
	}
	runs, total, err := collectRuns(func(work func()) []uint64 {
		return h.Collect(work).PCs()
	}, work, *flagIters)
	h.Close()
	if err != nil {
		tool.Fail(err)
	}
	if err := printRuns(os.Stdout, runs, total, *flagUnique, base); err != nil {
		tool.Fail(err)
	}
	if *flagOutput != "" {
		if err := cover.WriteFile(*flagOutput, total.Serialize()); err != nil {
			tool.Failf("failed to save coverage: %v", err)
		}
	}
	for _, ui := range stat.Collect(stat.Console) {
		log.Logf(1, "%-16v: %v", ui.Name, ui.Value)
	}
	if *flagHTTP != "" {
		serveMetrics(*flagHTTP)
	}
}

func loadConfig(file, device string, size int) (kcov.Config, error) {
	cfg := kcov.DefaultConfig()
	if file != "" {
		if err := config.LoadFile(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if device != "" {
		cfg.Device = device
	}
	if size != 0 {
		cfg.CoverSize = size
	}
	return cfg, cfg.Validate()
}

type collector func(work func()) []uint64

// collectRuns traces work iters times. Returns the PCs of every run and their union.
func collectRuns(collect collector, work func() error, iters int) ([][]uint64, cover.Cover, error) {
	var runs [][]uint64
	var total cover.Cover
	for i := 0; i < iters; i++ {
		var workErr error
		pcs := collect(func() { workErr = work() })
		if workErr != nil {
			return nil, nil, fmt.Errorf("iteration %v: workload failed: %w", i, workErr)
		}
		fresh := total.MergeDiff(pcs)
		log.Logf(1, "iteration %v: %v pcs, %v new", i, len(pcs), len(fresh))
		runs = append(runs, pcs)
	}
	return runs, total, nil
}

// printRuns prints PCs in hex, one per line, skipping PCs present in base.
func printRuns(w io.Writer, runs [][]uint64, total cover.Cover, unique bool, base cover.Cover) error {
	if unique {
		for _, pc := range base.Difference(total.Serialize()) {
			if _, err := fmt.Fprintf(w, "0x%x\n", pc); err != nil {
				return err
			}
		}
		return nil
	}
	for i, pcs := range runs {
		if len(runs) > 1 {
			if _, err := fmt.Fprintf(w, "# iteration %v: %v pcs\n", i, len(pcs)); err != nil {
				return err
			}
		}
		for _, pc := range base.Difference(pcs) {
			if _, err := fmt.Fprintf(w, "0x%x\n", pc); err != nil {
				return err
			}
		}
	}
	return nil
}

func serveMetrics(addr string) {
	shutdown := make(chan struct{})
	osutil.HandleInterrupts(shutdown)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-shutdown
		srv.Close()
	}()
	log.Logf(0, "serving metrics on http://%v/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		tool.Fail(err)
	}
}

// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cover

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/kcovtrace/pkg/osutil"
	"github.com/ulikunitz/xz"
)

// WriteFile stores pcs one per line in hex form.
// Files with the .xz extension are compressed.
func WriteFile(filename string, pcs []uint64) error {
	buf := new(bytes.Buffer)
	var w io.Writer = buf
	var xzw *xz.Writer
	if strings.HasSuffix(filename, ".xz") {
		var err error
		if xzw, err = xz.NewWriter(buf); err != nil {
			return fmt.Errorf("failed to create xz writer: %w", err)
		}
		w = xzw
	}
	bw := bufio.NewWriter(w)
	for _, pc := range pcs {
		fmt.Fprintf(bw, "0x%x\n", pc)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if xzw != nil {
		if err := xzw.Close(); err != nil {
			return fmt.Errorf("failed to compress %v: %w", filename, err)
		}
	}
	return osutil.WriteFile(filename, buf.Bytes())
}

// ReadFile reads PCs stored by WriteFile.
func ReadFile(filename string) ([]uint64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(filename, ".xz") {
		if r, err = xz.NewReader(f); err != nil {
			return nil, fmt.Errorf("failed to decompress %v: %w", filename, err)
		}
	}
	var pcs []uint64
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}
		pc, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%v:%v: bad PC %q", filename, line, text)
		}
		pcs = append(pcs, pc)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", filename, err)
	}
	return pcs, nil
}

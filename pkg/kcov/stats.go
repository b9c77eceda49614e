// Copyright 2025 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package kcov

import (
	"github.com/google/kcovtrace/pkg/stat"
)

var (
	statCollections = stat.New("kcov collections", "Number of traced work units",
		stat.Console, stat.Rate{}, stat.Prometheus("syz_kcov_collections"))
	statPCs = stat.New("kcov pcs", "Number of PCs recorded per traced work unit",
		stat.Console, stat.Distribution{})
	statOverflows = stat.New("kcov overflows", "Collections whose PC count exceeded the buffer capacity",
		stat.Prometheus("syz_kcov_overflows"))
)

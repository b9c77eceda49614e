// Copyright 2020 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExit(t *testing.T) {
	oldStderr, oldExit := stderr, exit
	defer func() { stderr, exit = oldStderr, oldExit }()
	buf := new(bytes.Buffer)
	code := -1
	stderr = buf
	exit = func(c int) { code = c }

	Exitf(ExitOSErr, "failed to open %v: %v", "/dev/x", "denied")
	assert.Equal(t, ExitOSErr, code)
	assert.Equal(t, "failed to open /dev/x: denied\n", buf.String())

	buf.Reset()
	Fail(errors.New("bad flag"))
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "bad flag\n", buf.String())
}

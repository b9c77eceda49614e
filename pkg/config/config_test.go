// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNested struct {
	Aaa int    `json:"aaa"`
	Bbb string `json:"bbb"`
}

type testConfig struct {
	Foo int        `json:"foo"`
	Bar string     `json:"bar"`
	Box testNested `json:"box"`
	Qux []string   `json:"qux"`
}

func TestLoad(t *testing.T) {
	tests := []struct {
		input  string
		output testConfig
		err    string
	}{
		{
			`{"foo": 42}`,
			testConfig{Foo: 42},
			"",
		},
		{
			"# leading comment\n{\n\t# inner comment\n\t\"bar\": \"baz\"\n}",
			testConfig{Bar: "baz"},
			"",
		},
		{
			`{"foo": 1, "box": {"aaa": 12, "bbb": "bbb"}, "qux": ["a", "b"]}`,
			testConfig{Foo: 1, Box: testNested{Aaa: 12, Bbb: "bbb"}, Qux: []string{"a", "b"}},
			"",
		},
		{
			`{"foobar": 42}`,
			testConfig{},
			`failed to parse config file: json: unknown field "foobar"`,
		},
		{
			`{"foo": "str"}`,
			testConfig{},
			"cannot unmarshal string",
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			var cfg testConfig
			err := LoadData([]byte(test.input), &cfg)
			if test.err != "" {
				assert.ErrorContains(t, err, test.err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(test.output, cfg); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	var cfg testConfig
	err := LoadYAMLData([]byte("foo: 3\nbox:\n  aaa: 1\nqux: [x]\n"), &cfg)
	require.NoError(t, err)
	assert.Equal(t, testConfig{Foo: 3, Box: testNested{Aaa: 1}, Qux: []string{"x"}}, cfg)

	err = LoadYAMLData([]byte("unknown: 1\n"), &cfg)
	assert.ErrorContains(t, err, `unknown field "unknown"`)
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	assert.EqualError(t, LoadFile("", &testConfig{}), "no config file specified")
	assert.Error(t, LoadFile(filepath.Join(dir, "missing.cfg"), &testConfig{}))

	want := testConfig{Foo: 7, Bar: "bar", Qux: []string{"q"}}
	file := filepath.Join(dir, "tool.cfg")
	require.NoError(t, SaveFile(file, want))
	var got testConfig
	require.NoError(t, LoadFile(file, &got))
	assert.Equal(t, want, got)

	file = filepath.Join(dir, "tool.yaml")
	require.NoError(t, os.WriteFile(file, []byte("foo: 7\nbar: bar\nqux:\n  - q\n"), 0644))
	got = testConfig{}
	require.NoError(t, LoadFile(file, &got))
	assert.Equal(t, want, got)
}

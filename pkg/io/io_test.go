package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/radial/group"
	"github.com/bdekoz/izzi/pkg/renderstate"
)

var wantPairs = []group.Pair{{ID: "a", Value: 3}, {ID: "bb", Value: 7.5}}

func TestReadDatasetFlat(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{FormatJSON, `{"bb": 7.5, "a": 3}`},
		{FormatYAML, "a: 3\nbb: 7.5\n"},
		{FormatTOML, "a = 3\nbb = 7.5\n"},
		{FormatCSV, "# comment\nid,value\na,3\nbb, 7.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			ds, err := ReadDataset(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			assert.Equal(t, wantPairs, ds.Values)
			assert.Equal(t, 7.5, ds.EffectiveMax())
			assert.Nil(t, ds.Table())
			assert.Equal(t, renderstate.Default(), ds.Lookup().StateFor("a"))
		})
	}
}

func TestReadDatasetDocument(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{FormatJSON, `{
			"title": "pronouns",
			"value_max": 10,
			"default_state": "vector|glyph",
			"states": {"bb": "text"},
			"values": [{"id": "a", "value": 3}, {"id": "bb", "value": 7.5}]
		}`},
		{FormatYAML, `
title: pronouns
value_max: 10
default_state: vector|glyph
states:
  bb: text
values:
  - {id: a, value: 3}
  - {id: bb, value: 7.5}
`},
		{FormatTOML, `
title = "pronouns"
value_max = 10
default_state = "vector|glyph"

[states]
bb = "text"

[[values]]
id = "a"
value = 3

[[values]]
id = "bb"
value = 7.5
`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			ds, err := ReadDataset(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			assert.Equal(t, "pronouns", ds.Title)
			assert.Equal(t, 10.0, ds.EffectiveMax())
			assert.Equal(t, wantPairs, ds.Values)

			lookup := ds.Lookup()
			assert.Equal(t, renderstate.Text, lookup.StateFor("bb").Visible)
			assert.Equal(t, renderstate.Vector|renderstate.Glyph, lookup.StateFor("a").Visible)
		})
	}
}

func TestReadDatasetErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		code   errors.Code
	}{
		{"unknown format", "xml", "<a/>", errors.ErrCodeInvalidFormat},
		{"bad json", FormatJSON, "{", errors.ErrCodeInvalidFormat},
		{"non-numeric", FormatJSON, `{"a": "lots"}`, errors.ErrCodeInvalidValue},
		{"entry without id", FormatJSON, `{"values": [{"value": 1}]}`, errors.ErrCodeInvalidID},
		{"bad state", FormatJSON, `{"values": {"a": 1}, "states": {"a": "sparkle"}}`, errors.ErrCodeInvalidStyle},
		{"csv too many fields", FormatCSV, "a,1,2\n", errors.ErrCodeInvalidFormat},
		{"csv bad value", FormatCSV, "a,1\nb,x\n", errors.ErrCodeInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(tt.input), tt.format)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "err = %v", err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]string{
		"a.json": FormatJSON, "b.YML": FormatYAML, "c.yaml": FormatYAML,
		"d.toml": FormatTOML, "e.csv": FormatCSV,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("values.xls")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestImportPairs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "values.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,3\nbb,7.5\n"), 0o644))

	pairs, err := ImportPairs(path)
	require.NoError(t, err)
	assert.Equal(t, wantPairs, pairs)

	_, err = ImportPairs(filepath.Join(dir, "missing.csv"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLayoutRoundTrip(t *testing.T) {
	l, err := radial.Compute([]radial.Pair{{ID: "a", Value: 10}, {ID: "b", Value: 11}, {ID: "c", Value: 11}, {ID: "z", Value: 0}},
		100, angular.DefaultRange(), radial.DefaultRadius(100), radial.DefaultCollision())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteLayout(l, &buf))
	assert.Contains(t, buf.String(), `"orbit": "high"`)
	assert.Contains(t, buf.String(), `"visible": "vector|text|glyph"`)

	got, err := ReadLayout(&buf)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, ExportLayout(l, path))
	fromFile, err := ImportLayout(path)
	require.NoError(t, err)
	assert.Equal(t, l, fromFile)

	data, err := MarshalLayout(l)
	require.NoError(t, err)
	compact, err := UnmarshalLayout(data)
	require.NoError(t, err)
	assert.Equal(t, l, compact)
}

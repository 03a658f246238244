package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/radial"
)

// WriteLayout encodes l as indented JSON.
func WriteLayout(l radial.Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalLayout returns l as compact JSON, the form used for cache entries
// and content hashes.
func MarshalLayout(l radial.Layout) ([]byte, error) {
	return json.Marshal(l)
}

// ExportLayout writes l to path.
func ExportLayout(l radial.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLayout(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadLayout decodes a layout written by [WriteLayout].
func ReadLayout(r io.Reader) (radial.Layout, error) {
	var l radial.Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return radial.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}

// UnmarshalLayout decodes compact layout JSON.
func UnmarshalLayout(data []byte) (radial.Layout, error) {
	var l radial.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return radial.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}

// ImportLayout reads the layout at path.
func ImportLayout(path string) (radial.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return radial.Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}

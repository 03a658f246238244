package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/radial/group"
	"github.com/bdekoz/izzi/pkg/renderstate"
)

// Supported dataset formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatCSV  = "csv"
)

// Formats lists the accepted dataset formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTOML, FormatCSV}

// Dataset is one diagram's input.
type Dataset struct {
	Title        string
	ValueMax     float64 // 0 means "use the largest value"
	Values       []group.Pair
	States       map[string]renderstate.Kind
	DefaultState renderstate.Kind
	hasDefault   bool
}

// EffectiveMax returns ValueMax, or the largest value when unset.
func (d *Dataset) EffectiveMax() float64 {
	if d.ValueMax > 0 {
		return d.ValueMax
	}
	var m float64
	for _, p := range d.Values {
		m = max(m, p.Value)
	}
	return m
}

// Lookup returns the render state table described by the dataset. Ids
// without an entry use the default state.
func (d *Dataset) Lookup() renderstate.Lookup {
	if t := d.Table(); t != nil {
		return *t
	}
	return renderstate.Uniform(renderstate.Default())
}

// Table returns the dataset's render states, or nil when the dataset sets
// none.
func (d *Dataset) Table() *renderstate.Table {
	if !d.hasDefault && len(d.States) == 0 {
		return nil
	}
	fallback := renderstate.Default()
	if d.hasDefault {
		fallback.Visible = d.DefaultState
	}
	t := &renderstate.Table{Fallback: fallback, ByID: make(map[string]renderstate.State, len(d.States))}
	for id, k := range d.States {
		s := fallback
		s.Visible = k
		t.ByID[id] = s
	}
	return t
}

// FormatFromPath infers the dataset format from the file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s (want one of: %s)", path, strings.Join(Formats, ", "))
}

// ImportDataset reads the dataset at path, inferring its format.
func ImportDataset(path string) (*Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadDataset(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadDataset decodes a dataset in the given format from r.
func ReadDataset(r io.Reader, format string) (*Dataset, error) {
	if err := errors.ValidateFormat(format, Formats...); err != nil {
		return nil, err
	}
	if format == FormatCSV {
		return readCSV(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var doc map[string]any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return fromDocument(doc)
}

// ReadPairs decodes only the values of a dataset.
func ReadPairs(r io.Reader, format string) ([]group.Pair, error) {
	ds, err := ReadDataset(r, format)
	if err != nil {
		return nil, err
	}
	return ds.Values, nil
}

// ImportPairs reads only the values of the dataset at path.
func ImportPairs(path string) ([]group.Pair, error) {
	ds, err := ImportDataset(path)
	if err != nil {
		return nil, err
	}
	return ds.Values, nil
}

func fromDocument(doc map[string]any) (*Dataset, error) {
	ds := &Dataset{}
	values, isDoc := doc["values"]
	if !isDoc {
		pairs, err := pairsFromMap(doc)
		if err != nil {
			return nil, err
		}
		ds.Values = pairs
		return ds, nil
	}

	if t, ok := doc["title"]; ok {
		s, ok := t.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "title must be a string")
		}
		ds.Title = s
	}
	if vm, ok := doc["value_max"]; ok {
		v, err := toFloat(vm)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "value_max")
		}
		ds.ValueMax = v
	}

	switch vs := values.(type) {
	case map[string]any:
		pairs, err := pairsFromMap(vs)
		if err != nil {
			return nil, err
		}
		ds.Values = pairs
	case []any:
		for i, item := range vs {
			p, err := pairFromEntry(item)
			if err != nil {
				return nil, fmt.Errorf("values[%d]: %w", i, err)
			}
			ds.Values = append(ds.Values, p)
		}
	case []map[string]any:
		for i, item := range vs {
			p, err := pairFromEntry(item)
			if err != nil {
				return nil, fmt.Errorf("values[%d]: %w", i, err)
			}
			ds.Values = append(ds.Values, p)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "values must be a list or an object, got %T", values)
	}

	if err := readStates(ds, doc); err != nil {
		return nil, err
	}
	return ds, nil
}

func readStates(ds *Dataset, doc map[string]any) error {
	if d, ok := doc["default_state"]; ok {
		s, ok := d.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "default_state must be a string")
		}
		k, err := renderstate.ParseKind(s)
		if err != nil {
			return err
		}
		ds.DefaultState, ds.hasDefault = k, true
	}
	raw, ok := doc["states"]
	if !ok {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "states must be an object")
	}
	ds.States = make(map[string]renderstate.Kind, len(m))
	for id, v := range m {
		s, ok := v.(string)
		if !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "state of %q must be a string", id)
		}
		k, err := renderstate.ParseKind(s)
		if err != nil {
			return fmt.Errorf("state of %q: %w", id, err)
		}
		ds.States[id] = k
	}
	return nil
}

func pairsFromMap(m map[string]any) ([]group.Pair, error) {
	flat := make(map[string]float64, len(m))
	for id, raw := range m {
		v, err := toFloat(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidValue, err, "value of %q", id)
		}
		flat[id] = v
	}
	return group.FromMap(flat), nil
}

func pairFromEntry(item any) (group.Pair, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return group.Pair{}, errors.New(errors.ErrCodeInvalidFormat, "entry must be an object with id and value")
	}
	id, ok := m["id"].(string)
	if !ok {
		return group.Pair{}, errors.New(errors.ErrCodeInvalidID, "entry is missing a string id")
	}
	v, err := toFloat(m["value"])
	if err != nil {
		return group.Pair{}, errors.Wrap(errors.ErrCodeInvalidValue, err, "value of %q", id)
	}
	return group.Pair{ID: id, Value: v}, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	case nil:
		return 0, fmt.Errorf("missing number")
	}
	return 0, fmt.Errorf("not a number: %v (%T)", v, v)
}

func readCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	ds := &Dataset{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv")
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "csv record %d: want id,value, got %d fields", line, len(rec))
		}
		id := strings.TrimSpace(rec[0])
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			if len(ds.Values) == 0 && line == 1 {
				continue // header
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidValue, err, "csv record %d", line)
		}
		if math.IsNaN(v) {
			return nil, errors.New(errors.ErrCodeInvalidValue, "csv record %d: value is NaN", line)
		}
		ds.Values = append(ds.Values, group.Pair{ID: id, Value: v})
	}
	return ds, nil
}

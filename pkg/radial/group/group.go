// Package group turns raw (identifier, value) input into the ordered
// sequence of distinct values consumed by the placement engine.
package group

import (
	"cmp"
	"math"
	"slices"

	"github.com/bdekoz/izzi/pkg/errors"
)

// Pair is one identifier and its magnitude.
type Pair struct {
	ID    string  `json:"id" yaml:"id" toml:"id"`
	Value float64 `json:"value" yaml:"value" toml:"value"`
}

// Group holds every identifier sharing one value. IDs are ordered by
// [SortIDs].
type Group struct {
	Value float64  `json:"value"`
	IDs   []string `json:"ids"`
}

// Len returns the number of identifiers in the group.
func (g Group) Len() int { return len(g.IDs) }

// Sequence is the strictly ascending list of distinct non-zero values.
type Sequence struct {
	Groups   []Group
	ValueMax float64

	// Elided holds identifiers whose value is zero. They carry no angular
	// position and are reported for diagnostics only.
	Elided []string
}

// Values returns the distinct values in ascending order.
func (s Sequence) Values() []float64 {
	out := make([]float64, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = g.Value
	}
	return out
}

// Len returns the number of placed identifiers across all groups.
func (s Sequence) Len() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.IDs)
	}
	return n
}

// Largest returns the biggest value present, or 0 for an empty sequence.
func (s Sequence) Largest() float64 {
	if len(s.Groups) == 0 {
		return 0
	}
	return s.Groups[len(s.Groups)-1].Value
}

// GroupByValue groups pairs by value. The result does not depend on input
// order. Duplicate identifiers and negative or non-finite values are
// rejected.
func GroupByValue(pairs []Pair) (Sequence, error) {
	seen := make(map[string]struct{}, len(pairs))
	byValue := make(map[float64][]string)
	var elided []string

	for _, p := range pairs {
		if err := errors.ValidateIdentifier(p.ID); err != nil {
			return Sequence{}, err
		}
		if _, dup := seen[p.ID]; dup {
			return Sequence{}, errors.New(errors.ErrCodeDuplicateID, "duplicate identifier %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) || p.Value < 0 {
			return Sequence{}, errors.New(errors.ErrCodeInvalidValue, "identifier %q has invalid value %v", p.ID, p.Value)
		}
		if p.Value == 0 {
			elided = append(elided, p.ID)
			continue
		}
		byValue[p.Value] = append(byValue[p.Value], p.ID)
	}

	seq := Sequence{Groups: make([]Group, 0, len(byValue))}
	for v, ids := range byValue {
		SortIDs(ids)
		seq.Groups = append(seq.Groups, Group{Value: v, IDs: ids})
	}
	slices.SortFunc(seq.Groups, func(a, b Group) int { return cmp.Compare(a.Value, b.Value) })

	SortIDs(elided)
	seq.Elided = elided
	return seq, nil
}

// SortIDs orders ids by byte length, then lexicographically.
func SortIDs(ids []string) {
	slices.SortFunc(ids, CompareIDs)
}

// CompareIDs is the tie-break used within a group.
func CompareIDs(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// Extract splits pairs into those whose identifier is listed in ids and
// the rest, preserving input order. Callers use it to draw a subset on a
// separate layer.
func Extract(pairs []Pair, ids []string) (matched, rest []Pair) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for _, p := range pairs {
		if _, ok := want[p.ID]; ok {
			matched = append(matched, p)
		} else {
			rest = append(rest, p)
		}
	}
	return matched, rest
}

// FromMap converts an id→value map into pairs sorted by identifier.
func FromMap(m map[string]float64) []Pair {
	pairs := make([]Pair, 0, len(m))
	for id, v := range m {
		pairs = append(pairs, Pair{ID: id, Value: v})
	}
	slices.SortFunc(pairs, func(a, b Pair) int { return cmp.Compare(a.ID, b.ID) })
	return pairs
}

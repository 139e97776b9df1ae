package prep

import (
	"fmt"
	"slices"
)

// OneHot is an indicator vector with a single 1 at the category index.
type OneHot []byte

// Index returns the position of the set entry, or -1 when the vector is not
// a valid one-hot vector.
func (v OneHot) Index() int {
	idx := -1
	for i, b := range v {
		switch b {
		case 0:
		case 1:
			if idx >= 0 {
				return -1
			}
			idx = i
		default:
			return -1
		}
	}
	return idx
}

// Table maps distinct category values to dense indexes in [0, Len()).
// Indexes follow the lexicographic order of the values.
type Table struct {
	values []string
	index  map[string]int
}

// NewTable builds a table from the distinct values of the input.
func NewTable(values []string) (*Table, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}
	distinct := slices.Clone(values)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)

	index := make(map[string]int, len(distinct))
	for i, v := range distinct {
		index[v] = i
	}
	return &Table{values: distinct, index: index}, nil
}

// Len returns the number of distinct values.
func (t *Table) Len() int {
	return len(t.values)
}

// Values returns the distinct values in index order.
func (t *Table) Values() []string {
	return slices.Clone(t.values)
}

// Index returns the index assigned to value.
func (t *Table) Index(value string) (int, bool) {
	i, ok := t.index[value]
	return i, ok
}

// Value returns the category stored at index i.
func (t *Table) Value(i int) string {
	return t.values[i]
}

// Encode returns the one-hot vector for value.
func (t *Table) Encode(value string) (OneHot, error) {
	i, ok := t.index[value]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", value)
	}
	vec := make(OneHot, len(t.values))
	vec[i] = 1
	return vec, nil
}

// Decode recovers the category a one-hot vector was built from.
func (t *Table) Decode(vec OneHot) (string, error) {
	if len(vec) != len(t.values) {
		return "", fmt.Errorf("vector length %d, table has %d values", len(vec), len(t.values))
	}
	i := vec.Index()
	if i < 0 {
		return "", fmt.Errorf("vector is not one-hot")
	}
	return t.values[i], nil
}

// Mapping returns the value-to-index map as a fresh copy.
func (t *Table) Mapping() map[string]int {
	out := make(map[string]int, len(t.index))
	for k, v := range t.index {
		out[k] = v
	}
	return out
}

// BuildEncoding builds the table for values and one one-hot vector per value.
func BuildEncoding(values []string) (*Table, []OneHot, error) {
	table, err := NewTable(values)
	if err != nil {
		return nil, nil, fmt.Errorf("one-hot encoding: %w", err)
	}
	vectors := make([]OneHot, len(values))
	for i, v := range values {
		vec := make(OneHot, table.Len())
		vec[table.index[v]] = 1
		vectors[i] = vec
	}
	return table, vectors, nil
}

// BuildLabelMapping assigns a dense integer label to every distinct value.
func BuildLabelMapping(values []string) (map[string]int, error) {
	table, err := NewTable(values)
	if err != nil {
		return nil, fmt.Errorf("label mapping: %w", err)
	}
	return table.Mapping(), nil
}

// LabelEncode returns the label of every value together with the mapping.
func LabelEncode(values []string) ([]int, map[string]int, error) {
	mapping, err := BuildLabelMapping(values)
	if err != nil {
		return nil, nil, err
	}
	labels := make([]int, len(values))
	for i, v := range values {
		labels[i] = mapping[v]
	}
	return labels, mapping, nil
}

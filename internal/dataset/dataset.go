// Package dataset holds the in-memory tabular model the assistant answers
// questions about, plus CSV ingestion and column typing.
package dataset

import (
	"math"
	"sort"
	"time"
)

var nan = math.NaN()

// Kind is the detected category of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindTemporal
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "Numérica"
	case KindTemporal:
		return "Data/Tempo"
	case KindCategorical:
		return "Categórica"
	}
	return "Desconhecida"
}

// Column stores one named column with a uniform kind. Exactly one of the
// value slices is populated, matching Kind; Null marks missing cells.
// Numeric nulls are also NaN in Floats so math code can skip them either way.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Times   []time.Time
	Strings []string
	Null    []bool
}

// Len returns the row count of the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.Floats)
	case KindTemporal:
		return len(c.Times)
	default:
		return len(c.Strings)
	}
}

// NonNull counts rows with a value present.
func (c *Column) NonNull() int {
	n := 0
	for _, isNull := range c.Null {
		if !isNull {
			n++
		}
	}
	return n
}

// Values returns the non-null numeric values of a numeric column.
func (c *Column) Values() []float64 {
	out := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if !c.Null[i] && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// CellString renders a cell for previews and crosstabs.
func (c *Column) CellString(row int) string {
	if row < 0 || row >= c.Len() || c.Null[row] {
		return ""
	}
	switch c.Kind {
	case KindNumeric:
		return trimFloat(c.Floats[row])
	case KindTemporal:
		return c.Times[row].Format("2006-01-02 15:04:05")
	default:
		return c.Strings[row]
	}
}

// Dataset is an ordered collection of columns with a shared row count.
// It is loaded once per session and treated as read-only afterwards,
// except for the one-time sort by a detected temporal column.
type Dataset struct {
	Columns []*Column
	Rows    int
}

// Column returns the column with the given name, or nil.
func (d *Dataset) Column(name string) *Column {
	for _, c := range d.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NumericColumns returns the numeric subset in column order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// NumericColumnNames returns the names of the numeric subset in order.
func (d *Dataset) NumericColumnNames() []string {
	var out []string
	for _, c := range d.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// NonNumericColumns returns every column that is not numeric, in order.
func (d *Dataset) NonNumericColumns() []*Column {
	var out []*Column
	for _, c := range d.Columns {
		if c.Kind != KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// SortByColumn reorders all rows ascending by the given temporal column,
// nulls last. Used once after load when a time column is detected, so that
// time-series answers walk the data in order.
func (d *Dataset) SortByColumn(name string) {
	col := d.Column(name)
	if col == nil || col.Kind != KindTemporal {
		return
	}

	idx := make([]int, d.Rows)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if col.Null[ia] != col.Null[ib] {
			return !col.Null[ia]
		}
		if col.Null[ia] {
			return false
		}
		return col.Times[ia].Before(col.Times[ib])
	})

	for _, c := range d.Columns {
		c.reorder(idx)
	}
}

func (c *Column) reorder(idx []int) {
	null := make([]bool, len(idx))
	for i, j := range idx {
		null[i] = c.Null[j]
	}
	switch c.Kind {
	case KindNumeric:
		vals := make([]float64, len(idx))
		for i, j := range idx {
			vals[i] = c.Floats[j]
		}
		c.Floats = vals
	case KindTemporal:
		vals := make([]time.Time, len(idx))
		for i, j := range idx {
			vals[i] = c.Times[j]
		}
		c.Times = vals
	default:
		vals := make([]string, len(idx))
		for i, j := range idx {
			vals[i] = c.Strings[j]
		}
		c.Strings = vals
	}
	c.Null = null
}

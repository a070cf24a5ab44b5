package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Descriptor is one row of the column-type table.
type Descriptor struct {
	Column   string  `json:"column"`
	Kind     string  `json:"kind"`
	NonNull  int     `json:"non_null"`
	NullPct  float64 `json:"null_pct"`
	kindRank int
}

// Summary counts columns per detected category.
type Summary struct {
	Numeric     int `json:"numeric"`
	Temporal    int `json:"temporal"`
	Categorical int `json:"categorical"`
}

// Classify builds the per-column descriptor table and category counts.
// The table is sorted by category rank (numeric, temporal, categorical)
// and then by column name, so output is deterministic.
func Classify(d *Dataset) ([]Descriptor, Summary) {
	var table []Descriptor
	var sum Summary

	for _, c := range d.Columns {
		nonNull := c.NonNull()
		pct := 0.0
		if n := c.Len(); n > 0 {
			pct = math.Round(float64(n-nonNull)/float64(n)*100*100) / 100
		}
		table = append(table, Descriptor{
			Column:   c.Name,
			Kind:     c.Kind.String(),
			NonNull:  nonNull,
			NullPct:  pct,
			kindRank: int(c.Kind),
		})
		switch c.Kind {
		case KindNumeric:
			sum.Numeric++
		case KindTemporal:
			sum.Temporal++
		default:
			sum.Categorical++
		}
	}

	sort.SliceStable(table, func(a, b int) bool {
		if table[a].kindRank != table[b].kindRank {
			return table[a].kindRank < table[b].kindRank
		}
		return table[a].Column < table[b].Column
	})
	return table, sum
}

var timeColumnNames = []string{"time", "timestamp", "date", "datetime", "year"}

// DetectTimeColumn scans column names case-insensitively for a known time
// name and returns the first match. A matching column that is not already
// temporal gets a best-effort in-place datetime conversion; cells that do
// not parse become nulls, and the column is returned regardless.
func DetectTimeColumn(d *Dataset) (string, bool) {
	for _, c := range d.Columns {
		lower := strings.ToLower(c.Name)
		for _, cand := range timeColumnNames {
			if lower == cand {
				if c.Kind != KindTemporal {
					convertToTemporal(c)
				}
				return c.Name, true
			}
		}
	}
	return "", false
}

func convertToTemporal(c *Column) {
	n := c.Len()
	times := make([]time.Time, n)
	null := make([]bool, n)
	for i := 0; i < n; i++ {
		raw := c.CellString(i)
		t, ok := parseYearOrDate(raw)
		if !ok {
			null[i] = true
			continue
		}
		times[i] = t
	}
	c.Kind = KindTemporal
	c.Floats = nil
	c.Strings = nil
	c.Times = times
	c.Null = null
}

func parseYearOrDate(v string) (time.Time, bool) {
	if t, ok := parseDate(v); ok {
		return t, true
	}
	// Numeric year columns arrive as floats ("2021" prints as "2021").
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		y := int(f)
		if y >= 1 && y <= 9999 && f == float64(y) {
			return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Package eda implements the statistical computations behind the
// assistant's answers. Every function restricts itself to the numeric
// subset of the dataset unless noted, tolerates nulls, and returns an
// empty result instead of failing when nothing is computable.
package eda

import (
	"math"
	"sort"

	"edabot/internal/dataset"
)

// RangeStat holds min/max for one numeric column.
type RangeStat struct {
	Column string `json:"column"`
	Min    Float  `json:"min"`
	Max    Float  `json:"max"`
}

// CentralStat holds mean/median for one numeric column.
type CentralStat struct {
	Column string `json:"column"`
	Mean   Float  `json:"mean"`
	Median Float  `json:"median"`
}

// DispersionStat holds sample std/variance for one numeric column.
type DispersionStat struct {
	Column   string `json:"column"`
	Std      Float  `json:"std"`
	Variance Float  `json:"variance"`
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnFrequencies is the ranked top-N value counts of one column.
type ColumnFrequencies struct {
	Column string       `json:"column"`
	Values []ValueCount `json:"values"`
}

// Range returns {min, max} per numeric column, in column order.
func Range(d *dataset.Dataset) []RangeStat {
	var out []RangeStat
	for _, c := range d.NumericColumns() {
		vals := c.Values()
		if len(vals) == 0 {
			out = append(out, RangeStat{Column: c.Name, Min: Float(math.NaN()), Max: Float(math.NaN())})
			continue
		}
		lo, hi := vals[0], vals[0]
		for _, v := range vals[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		out = append(out, RangeStat{Column: c.Name, Min: Float(lo), Max: Float(hi)})
	}
	return out
}

// CentralTendency returns {mean, median} per numeric column.
func CentralTendency(d *dataset.Dataset) []CentralStat {
	var out []CentralStat
	for _, c := range d.NumericColumns() {
		vals := c.Values()
		out = append(out, CentralStat{Column: c.Name, Mean: Float(mean(vals)), Median: Float(median(vals))})
	}
	return out
}

// Dispersion returns sample {std, variance} per numeric column.
func Dispersion(d *dataset.Dataset) []DispersionStat {
	var out []DispersionStat
	for _, c := range d.NumericColumns() {
		vals := c.Values()
		v := sampleVariance(vals)
		out = append(out, DispersionStat{Column: c.Name, Std: Float(math.Sqrt(v)), Variance: Float(v)})
	}
	return out
}

// Frequencies returns the top-N value counts for every column, nulls
// excluded. Columns without a single value are omitted. Ties rank by first
// appearance, so output is stable for a given dataset.
func Frequencies(d *dataset.Dataset, topN int) []ColumnFrequencies {
	var out []ColumnFrequencies
	for _, c := range d.Columns {
		counts := map[string]int{}
		var order []string
		for i := 0; i < c.Len(); i++ {
			if c.Null[i] {
				continue
			}
			v := c.CellString(i)
			if _, seen := counts[v]; !seen {
				order = append(order, v)
			}
			counts[v]++
		}
		if len(order) == 0 {
			continue
		}
		sort.SliceStable(order, func(a, b int) bool {
			return counts[order[a]] > counts[order[b]]
		})
		if len(order) > topN {
			order = order[:topN]
		}
		cf := ColumnFrequencies{Column: c.Name}
		for _, v := range order {
			cf.Values = append(cf.Values, ValueCount{Value: v, Count: counts[v]})
		}
		out = append(out, cf)
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 0 {
		return (s[n/2-1] + s[n/2]) / 2
	}
	return s[n/2]
}

// sampleVariance uses one degree of freedom, matching the reported
// dispersion statistics; populationStd is used only for normalization.
func sampleVariance(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals)-1)
}

func sampleStd(vals []float64) float64 {
	return math.Sqrt(sampleVariance(vals))
}

func populationStd(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)))
}

// quantile interpolates linearly between order statistics, the same
// convention pandas and numpy use for percentiles.
func quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s[lo]
	}
	frac := pos - float64(lo)
	return s[lo]*(1-frac) + s[hi]*frac
}

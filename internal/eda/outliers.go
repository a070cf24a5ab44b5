package eda

import (
	"math"
	"sort"

	"edabot/internal/dataset"
)

// OutlierShare is the percentage of rows with an outlying value in one
// numeric column.
type OutlierShare struct {
	Column string  `json:"column"`
	Pct    float64 `json:"pct"`
}

// OutlierImpactStat compares mean/std of one numeric column computed over
// all rows against rows that carry no outlier in any numeric column.
type OutlierImpactStat struct {
	Column    string `json:"column"`
	MeanAll   Float  `json:"mean_with_outliers"`
	MeanClean Float  `json:"mean_without_outliers"`
	StdAll    Float  `json:"std_with_outliers"`
	StdClean  Float  `json:"std_without_outliers"`
	DeltaMean Float  `json:"delta_mean_abs"`
	DeltaStd  Float  `json:"delta_std_abs"`
}

// OutlierMask flags values strictly outside the Tukey fences
// [Q1-1.5*IQR, Q3+1.5*IQR], computed independently per numeric column.
// The mask is row-major: mask[row][i] covers the i-th numeric column.
// Boundary values are not flagged, and nulls never flag.
func OutlierMask(d *dataset.Dataset) [][]bool {
	cols := d.NumericColumns()
	mask := make([][]bool, d.Rows)
	for i := range mask {
		mask[i] = make([]bool, len(cols))
	}
	for ci, c := range cols {
		vals := c.Values()
		if len(vals) == 0 {
			continue
		}
		q1 := quantile(vals, 0.25)
		q3 := quantile(vals, 0.75)
		iqr := q3 - q1
		lo := q1 - 1.5*iqr
		hi := q3 + 1.5*iqr
		for row := 0; row < c.Len(); row++ {
			if c.Null[row] {
				continue
			}
			v := c.Floats[row]
			if v < lo || v > hi {
				mask[row][ci] = true
			}
		}
	}
	return mask
}

// OutlierPercentages returns the share of rows flagged per numeric column,
// rounded to two decimals and sorted descending. Empty when the dataset has
// no numeric columns.
func OutlierPercentages(d *dataset.Dataset) []OutlierShare {
	cols := d.NumericColumns()
	if len(cols) == 0 {
		return nil
	}
	mask := OutlierMask(d)
	out := make([]OutlierShare, len(cols))
	for ci, c := range cols {
		n := 0
		for row := range mask {
			if mask[row][ci] {
				n++
			}
		}
		pct := 0.0
		if d.Rows > 0 {
			pct = math.Round(float64(n)/float64(d.Rows)*100*100) / 100
		}
		out[ci] = OutlierShare{Column: c.Name, Pct: pct}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Pct > out[b].Pct })
	return out
}

// OutlierImpact drops every row containing at least one outlying value in
// any numeric column and reports how mean and std move per column. The
// row-level exclusion is deliberate: it measures the marginal effect of
// outlier-contaminated rows on the joint statistics, not a per-column
// re-estimate.
func OutlierImpact(d *dataset.Dataset) []OutlierImpactStat {
	cols := d.NumericColumns()
	if len(cols) == 0 {
		return nil
	}
	mask := OutlierMask(d)
	rowHasOutlier := make([]bool, d.Rows)
	for row := range mask {
		for _, flagged := range mask[row] {
			if flagged {
				rowHasOutlier[row] = true
				break
			}
		}
	}

	out := make([]OutlierImpactStat, 0, len(cols))
	for _, c := range cols {
		var all, clean []float64
		for row := 0; row < c.Len(); row++ {
			if c.Null[row] {
				continue
			}
			all = append(all, c.Floats[row])
			if !rowHasOutlier[row] {
				clean = append(clean, c.Floats[row])
			}
		}
		s := OutlierImpactStat{
			Column:    c.Name,
			MeanAll:   Float(mean(all)),
			MeanClean: Float(mean(clean)),
			StdAll:    Float(sampleStd(all)),
			StdClean:  Float(sampleStd(clean)),
		}
		s.DeltaMean = Float(math.Abs(float64(s.MeanClean - s.MeanAll)))
		s.DeltaStd = Float(math.Abs(float64(s.StdClean - s.StdAll)))
		out = append(out, s)
	}
	return out
}

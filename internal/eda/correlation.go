package eda

import (
	"math"
	"sort"

	"edabot/internal/dataset"
)

// CorrelationMatrix is a square Pearson correlation matrix over the numeric
// columns, in column order. Values[i][j] correlates Columns[i] with
// Columns[j]; the diagonal is 1.
type CorrelationMatrix struct {
	Columns []string  `json:"columns"`
	Values  [][]Float `json:"values"`
}

// InfluenceScore ranks a numeric column by its mean absolute correlation
// with the other numeric columns, a cheap proxy for centrality.
type InfluenceScore struct {
	Column string `json:"column"`
	Score  Float  `json:"score"`
}

// Correlation computes the Pearson matrix with pairwise null deletion.
// A dataset without numeric columns yields an empty, still-renderable
// matrix.
func Correlation(d *dataset.Dataset) CorrelationMatrix {
	cols := d.NumericColumns()
	m := CorrelationMatrix{}
	for _, c := range cols {
		m.Columns = append(m.Columns, c.Name)
	}
	m.Values = make([][]Float, len(cols))
	for i := range cols {
		m.Values[i] = make([]Float, len(cols))
		for j := range cols {
			if i == j {
				m.Values[i][j] = 1
				continue
			}
			m.Values[i][j] = Float(pearson(cols[i], cols[j]))
		}
	}
	return m
}

// InfluenceRanking sorts numeric columns by mean absolute pairwise
// correlation with the other numeric columns, descending. Empty when fewer
// than two numeric columns exist.
func InfluenceRanking(d *dataset.Dataset) []InfluenceScore {
	cols := d.NumericColumns()
	if len(cols) < 2 {
		return nil
	}
	m := Correlation(d)
	out := make([]InfluenceScore, len(cols))
	for i, name := range m.Columns {
		sum, n := 0.0, 0
		for j := range m.Columns {
			if i == j {
				continue
			}
			v := m.Values[i][j]
			if v.IsNaN() {
				continue
			}
			sum += math.Abs(float64(v))
			n++
		}
		score := Float(math.NaN())
		if n > 0 {
			score = Float(sum / float64(n))
		}
		out[i] = InfluenceScore{Column: name, Score: score}
	}
	// NaN compares false both ways, so it must be sunk explicitly or it
	// lands wherever the sort happens to leave it.
	sort.SliceStable(out, func(a, b int) bool {
		if out[b].Score.IsNaN() {
			return !out[a].Score.IsNaN()
		}
		if out[a].Score.IsNaN() {
			return false
		}
		return out[a].Score > out[b].Score
	})
	return out
}

func pearson(a, b *dataset.Column) float64 {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	var xs, ys []float64
	for i := 0; i < n; i++ {
		if a.Null[i] || b.Null[i] {
			continue
		}
		xs = append(xs, a.Floats[i])
		ys = append(ys, b.Floats[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}

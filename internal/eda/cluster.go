package eda

import (
	"fmt"
	"math"
	"math/rand"

	"edabot/internal/dataset"
)

// ClusterOptions control the k-means run. Seed fixes both the row sample
// and the centroid initialization, which makes repeated runs identical.
type ClusterOptions struct {
	K         int
	SampleCap int
	Seed      int64
}

// DefaultClusterOptions mirrors the assistant's defaults: 3 clusters over a
// sample of at most 5000 rows.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{K: 3, SampleCap: 5000, Seed: 42}
}

// ClusterCount is the row count of one cluster, ordered by label.
type ClusterCount struct {
	Label int `json:"label"`
	Count int `json:"count"`
}

// ClusterResult holds per-cluster counts plus a human-readable summary.
type ClusterResult struct {
	Counts  []ClusterCount `json:"counts"`
	Summary string         `json:"summary"`
}

// Cluster runs k-means over the numeric subset. It needs at least two
// numeric columns and two rows; anything less reports an explanatory error
// instead of failing. Missing values are imputed with full-column means and
// features are z-scored with population std before clustering.
func Cluster(d *dataset.Dataset, opts ClusterOptions) (*ClusterResult, error) {
	cols := d.NumericColumns()
	if len(cols) < 2 || d.Rows < 2 {
		return nil, fmt.Errorf("dados numéricos insuficientes para clusterização")
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	n := d.Rows
	if opts.SampleCap > 0 && n > opts.SampleCap {
		n = opts.SampleCap
	}
	perm := rng.Perm(d.Rows)
	rowsIdx := perm[:n]

	// Impute with full-column means so sampling does not shift the fill
	// value between runs on different caps.
	fill := make([]float64, len(cols))
	for ci, c := range cols {
		fill[ci] = mean(c.Values())
	}

	points := make([][]float64, n)
	for i, row := range rowsIdx {
		p := make([]float64, len(cols))
		for ci, c := range cols {
			if c.Null[row] || math.IsNaN(c.Floats[row]) {
				p[ci] = fill[ci]
			} else {
				p[ci] = c.Floats[row]
			}
		}
		points[i] = p
	}

	normalize(points)

	k := opts.K
	if k < 1 {
		k = 3
	}
	if k > n {
		k = n
	}
	labels := kmeans(points, k, rng)

	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	res := &ClusterResult{Summary: fmt.Sprintf("Clusters (k=%d) em amostra de %d linhas.", k, n)}
	for label, c := range counts {
		res.Counts = append(res.Counts, ClusterCount{Label: label, Count: c})
	}
	return res, nil
}

// normalize z-scores each feature in place using population std. Features
// with zero spread collapse to zero instead of dividing by zero.
func normalize(points [][]float64) {
	if len(points) == 0 {
		return
	}
	dims := len(points[0])
	for dim := 0; dim < dims; dim++ {
		col := make([]float64, len(points))
		for i := range points {
			col[i] = points[i][dim]
		}
		m := mean(col)
		sd := populationStd(col)
		for i := range points {
			if sd == 0 || math.IsNaN(sd) {
				points[i][dim] = 0
				continue
			}
			points[i][dim] = (points[i][dim] - m) / sd
		}
	}
}

// kmeans is plain Lloyd's iteration with random distinct starting points.
func kmeans(points [][]float64, k int, rng *rand.Rand) []int {
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centroids[i] = append([]float64(nil), points[idx]...)
	}

	labels := make([]int, len(points))
	const maxIter = 100
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for ci, c := range centroids {
				d := sqDist(p, c)
				if d < bestDist {
					best, bestDist = ci, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		dims := len(points[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dims)
		}
		for i, p := range points {
			l := labels[i]
			counts[l]++
			for d, v := range p {
				sums[l][d] += v
			}
		}
		for ci := range centroids {
			if counts[ci] == 0 {
				// Empty cluster: reseed on a random point to keep k stable.
				centroids[ci] = append([]float64(nil), points[rng.Intn(len(points))]...)
				continue
			}
			for d := range centroids[ci] {
				centroids[ci][d] = sums[ci][d] / float64(counts[ci])
			}
		}
	}
	return labels
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

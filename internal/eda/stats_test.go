package eda

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"edabot/internal/dataset"
)

func mustParse(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	return ds
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRange(t *testing.T) {
	ds := mustParse(t, "a,nome\n3,x\n1,y\n5,z\n")
	stats := Range(ds)
	if len(stats) != 1 {
		t.Fatalf("expected 1 numeric column, got %d", len(stats))
	}
	if stats[0].Min != 1 || stats[0].Max != 5 {
		t.Fatalf("unexpected range: %+v", stats[0])
	}
}

func TestCentralTendencySkipsNulls(t *testing.T) {
	ds := mustParse(t, "a\n1\n\n2\n3\n")
	stats := CentralTendency(ds)
	if !almostEqual(float64(stats[0].Mean), 2) {
		t.Errorf("expected mean 2, got %v", stats[0].Mean)
	}
	if !almostEqual(float64(stats[0].Median), 2) {
		t.Errorf("expected median 2, got %v", stats[0].Median)
	}
}

func TestMedianEvenCount(t *testing.T) {
	if got := median([]float64{4, 1, 3, 2}); !almostEqual(got, 2.5) {
		t.Fatalf("expected median 2.5, got %v", got)
	}
}

func TestDispersionIsSampleStatistics(t *testing.T) {
	ds := mustParse(t, "a\n2\n4\n6\n8\n")
	stats := Dispersion(ds)
	// Sample variance of {2,4,6,8} with ddof=1.
	if !almostEqual(float64(stats[0].Variance), 20.0/3.0) {
		t.Errorf("expected variance %v, got %v", 20.0/3.0, stats[0].Variance)
	}
	if !almostEqual(float64(stats[0].Std), math.Sqrt(20.0/3.0)) {
		t.Errorf("expected std %v, got %v", math.Sqrt(20.0/3.0), stats[0].Std)
	}
}

func TestDispersionSingleValueEncodesAsNull(t *testing.T) {
	ds := mustParse(t, "a\n3\n")
	stats := Dispersion(ds)
	if !stats[0].Std.IsNaN() || !stats[0].Variance.IsNaN() {
		t.Fatalf("one value has no sample dispersion: %+v", stats[0])
	}

	b, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), `"std":null`) {
		t.Errorf("NaN std must encode as null: %s", b)
	}
}

func TestStatsEmptyWithoutNumericColumns(t *testing.T) {
	ds := mustParse(t, "nome\nana\nrui\n")
	if got := Range(ds); len(got) != 0 {
		t.Errorf("Range should be empty, got %v", got)
	}
	if got := CentralTendency(ds); len(got) != 0 {
		t.Errorf("CentralTendency should be empty, got %v", got)
	}
	if got := Dispersion(ds); len(got) != 0 {
		t.Errorf("Dispersion should be empty, got %v", got)
	}
}

func TestFrequenciesTopNAndNulls(t *testing.T) {
	ds := mustParse(t, "zona\nnorte\nnorte\nsul\n\nnorte\nsul\neste\n")
	freqs := Frequencies(ds, 2)
	if len(freqs) != 1 {
		t.Fatalf("expected 1 column, got %d", len(freqs))
	}
	f := freqs[0]
	if len(f.Values) != 2 {
		t.Fatalf("expected top 2 values, got %d", len(f.Values))
	}
	if f.Values[0].Value != "norte" || f.Values[0].Count != 3 {
		t.Errorf("expected norte x3 first, got %+v", f.Values[0])
	}
	if f.Values[1].Value != "sul" || f.Values[1].Count != 2 {
		t.Errorf("expected sul x2 second, got %+v", f.Values[1])
	}
}

func TestFrequenciesOmitsEmptyColumns(t *testing.T) {
	ds := mustParse(t, "a,b\n,x\n,y\n")
	freqs := Frequencies(ds, 10)
	if len(freqs) != 1 || freqs[0].Column != "b" {
		t.Fatalf("expected only column b, got %+v", freqs)
	}
}

func TestQuantileInterpolates(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
	if got := quantile(vals, 0.25); !almostEqual(got, 3.25) {
		t.Errorf("expected Q1 3.25, got %v", got)
	}
	if got := quantile(vals, 0.75); !almostEqual(got, 7.75) {
		t.Errorf("expected Q3 7.75, got %v", got)
	}
}

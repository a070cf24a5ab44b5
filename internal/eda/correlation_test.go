package eda

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCorrelationPerfectPositive(t *testing.T) {
	ds := mustParse(t, "a,b\n1,2\n2,4\n3,6\n4,8\n")
	m := Correlation(ds)
	if len(m.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(m.Columns))
	}
	if !almostEqual(float64(m.Values[0][1]), 1) {
		t.Errorf("expected corr 1, got %v", m.Values[0][1])
	}
	if !almostEqual(float64(m.Values[0][0]), 1) || !almostEqual(float64(m.Values[1][1]), 1) {
		t.Errorf("diagonal must be 1")
	}
}

func TestCorrelationNegative(t *testing.T) {
	ds := mustParse(t, "a,b\n1,8\n2,6\n3,4\n4,2\n")
	m := Correlation(ds)
	if !almostEqual(float64(m.Values[0][1]), -1) {
		t.Errorf("expected corr -1, got %v", m.Values[0][1])
	}
}

func TestCorrelationPairwiseNullDeletion(t *testing.T) {
	ds := mustParse(t, "a,b\n1,2\n2,\n3,6\n4,8\n")
	m := Correlation(ds)
	if !almostEqual(float64(m.Values[0][1]), 1) {
		t.Errorf("null row should be dropped pairwise, got %v", m.Values[0][1])
	}
}

func TestCorrelationConstantColumnIsNaN(t *testing.T) {
	ds := mustParse(t, "a,b\n1,5\n2,5\n3,5\n")
	m := Correlation(ds)
	if !m.Values[0][1].IsNaN() {
		t.Errorf("zero-variance correlation should be NaN, got %v", m.Values[0][1])
	}
}

func TestCorrelationMatrixEncodesNaNAsNull(t *testing.T) {
	ds := mustParse(t, "a,b\n1,5\n2,5\n3,5\n")
	m := Correlation(ds)

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), "null") {
		t.Errorf("NaN cells must encode as null: %s", b)
	}
}

func TestCorrelationNoNumericColumns(t *testing.T) {
	ds := mustParse(t, "nome\nana\n")
	m := Correlation(ds)
	if len(m.Columns) != 0 {
		t.Fatalf("expected empty matrix, got %+v", m)
	}
}

func TestInfluenceRankingOrder(t *testing.T) {
	// a and b move together; c is uncorrelated noise, so a and b outrank it.
	ds := mustParse(t, "a,b,c\n1,2,5\n2,4,1\n3,6,9\n4,8,2\n5,10,7\n")
	scores := InfluenceRanking(ds)
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[len(scores)-1].Column != "c" {
		t.Errorf("expected c ranked last, got %+v", scores)
	}
	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[i-1].Score {
			t.Errorf("scores not descending: %+v", scores)
		}
	}
}

func TestInfluenceRankingNaNScoresLast(t *testing.T) {
	// c is constant, so both of its pairwise correlations are NaN and its
	// score is NaN. It must land at the end, not wherever the sort left it.
	ds := mustParse(t, "a,b,c\n1,2,5\n2,4,5\n3,6,5\n4,8,5\n")
	scores := InfluenceRanking(ds)
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[2].Column != "c" || !scores[2].Score.IsNaN() {
		t.Fatalf("NaN score should rank last, got %+v", scores)
	}
	if scores[0].Score.IsNaN() || scores[1].Score.IsNaN() {
		t.Fatalf("defined scores must precede NaN: %+v", scores)
	}
}

func TestInfluenceRankingNeedsTwoNumeric(t *testing.T) {
	ds := mustParse(t, "a,nome\n1,x\n2,y\n")
	if got := InfluenceRanking(ds); len(got) != 0 {
		t.Fatalf("expected empty ranking, got %v", got)
	}
}

package dataset

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, csv string) *Dataset {
	t.Helper()
	ds, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	return ds
}

func TestClassifyTableAndCounts(t *testing.T) {
	ds := mustParse(t,
		"b_num,a_num,quando,zona,nome\n1,2,2024-01-01,norte,ana\n3,4,2024-01-02,sul,rui\n")

	table, sum := Classify(ds)
	if len(table) != 5 {
		t.Fatalf("expected 5 descriptors, got %d", len(table))
	}
	if sum.Numeric != 2 || sum.Temporal != 1 || sum.Categorical != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	// Numeric first sorted by name, then temporal, then categorical by name.
	wantOrder := []string{"a_num", "b_num", "quando", "nome", "zona"}
	for i, want := range wantOrder {
		if table[i].Column != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, table[i].Column)
		}
	}
}

func TestClassifyNullPct(t *testing.T) {
	ds := mustParse(t, "x\n1\n\n3\n\n")
	table, _ := Classify(ds)
	if table[0].NonNull != 2 {
		t.Errorf("expected 2 non-null, got %d", table[0].NonNull)
	}
	if table[0].NullPct != 50 {
		t.Errorf("expected 50%% nulls, got %v", table[0].NullPct)
	}
}

func TestDetectTimeColumnByName(t *testing.T) {
	ds := mustParse(t, "Date,sales\n2024-01-01,10\n2024-01-02,20\n")
	name, ok := DetectTimeColumn(ds)
	if !ok || name != "Date" {
		t.Fatalf("expected Date detected, got %q ok=%v", name, ok)
	}
}

func TestDetectTimeColumnConvertsYears(t *testing.T) {
	ds := mustParse(t, "year,v\n2020,1\n2021,2\n")
	name, ok := DetectTimeColumn(ds)
	if !ok || name != "year" {
		t.Fatalf("expected year detected, got %q ok=%v", name, ok)
	}
	c := ds.Column("year")
	if c.Kind != KindTemporal {
		t.Fatalf("year column should be temporal after detection, got %v", c.Kind)
	}
	if c.Times[0].Year() != 2020 || c.Times[1].Year() != 2021 {
		t.Fatalf("unexpected converted years: %v %v", c.Times[0], c.Times[1])
	}
}

func TestDetectTimeColumnParseFailuresBecomeNulls(t *testing.T) {
	ds := mustParse(t, "timestamp,v\nnot-a-date,1\n2024-01-02,2\n")
	name, ok := DetectTimeColumn(ds)
	if !ok || name != "timestamp" {
		t.Fatalf("expected timestamp detected despite bad values, got %q ok=%v", name, ok)
	}
	c := ds.Column("timestamp")
	if !c.Null[0] {
		t.Errorf("unparseable cell should be null")
	}
	if c.Null[1] {
		t.Errorf("valid cell should not be null")
	}
}

func TestDetectTimeColumnNone(t *testing.T) {
	ds := mustParse(t, "a,b\n1,2\n")
	if _, ok := DetectTimeColumn(ds); ok {
		t.Fatalf("expected no time column")
	}
}

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

// ParseCSV reads a delimited file into a typed Dataset. A column is numeric
// when every non-empty cell parses as a float, temporal when every non-empty
// cell parses with one of the known date layouts, otherwise categorical.
// Cells that fail the column's parse become nulls instead of errors.
func ParseCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, rec)
	}

	ds := &Dataset{Rows: len(rows)}
	for colIdx, name := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if colIdx < len(rec) {
				raw[i] = strings.TrimSpace(rec[colIdx])
			}
		}
		ds.Columns = append(ds.Columns, buildColumn(name, raw))
	}
	return ds, nil
}

func buildColumn(name string, raw []string) *Column {
	switch inferKind(raw) {
	case KindNumeric:
		return numericColumn(name, raw)
	case KindTemporal:
		return temporalColumn(name, raw)
	default:
		col := &Column{Name: name, Kind: KindCategorical, Strings: raw, Null: make([]bool, len(raw))}
		for i, v := range raw {
			col.Null[i] = v == ""
		}
		return col
	}
}

func inferKind(raw []string) Kind {
	numeric, temporal, seen := true, true, false
	for _, v := range raw {
		if v == "" {
			continue
		}
		seen = true
		if numeric {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
			}
		}
		if temporal {
			if _, ok := parseDate(v); !ok {
				temporal = false
			}
		}
		if !numeric && !temporal {
			return KindCategorical
		}
	}
	if !seen {
		return KindCategorical
	}
	if numeric {
		return KindNumeric
	}
	return KindTemporal
}

func numericColumn(name string, raw []string) *Column {
	col := &Column{Name: name, Kind: KindNumeric, Floats: make([]float64, len(raw)), Null: make([]bool, len(raw))}
	for i, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if v == "" || err != nil {
			col.Null[i] = true
			col.Floats[i] = nan
			continue
		}
		col.Floats[i] = f
	}
	return col
}

func temporalColumn(name string, raw []string) *Column {
	col := &Column{Name: name, Kind: KindTemporal, Times: make([]time.Time, len(raw)), Null: make([]bool, len(raw))}
	for i, v := range raw {
		t, ok := parseDate(v)
		if !ok {
			col.Null[i] = true
			continue
		}
		col.Times[i] = t
	}
	return col
}

func parseDate(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	// Bare numbers are years only in the 4-digit range; otherwise "12" or
	// "2.5" would type as dates.
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1000 && n <= 9999 {
			return time.Date(n, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

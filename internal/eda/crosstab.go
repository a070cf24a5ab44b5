package eda

import (
	"fmt"
	"sort"

	"edabot/internal/dataset"
)

// CrosstabTable is a contingency table between two non-numeric columns.
// Counts[i][j] is the number of rows with RowValues[i] and ColValues[j].
type CrosstabTable struct {
	RowColumn string   `json:"row_column"`
	ColColumn string   `json:"col_column"`
	RowValues []string `json:"row_values"`
	ColValues []string `json:"col_values"`
	Counts    [][]int  `json:"counts"`
}

// Crosstab builds a contingency table between the first two non-numeric
// columns. Rows with a null in either column are skipped. Needs at least
// two non-numeric columns.
func Crosstab(d *dataset.Dataset) (*CrosstabTable, error) {
	cats := d.NonNumericColumns()
	if len(cats) < 2 {
		return nil, fmt.Errorf("não encontrei duas colunas categóricas para tabela cruzada")
	}
	a, b := cats[0], cats[1]

	counts := map[[2]string]int{}
	rowSet := map[string]bool{}
	colSet := map[string]bool{}
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	for i := 0; i < n; i++ {
		if a.Null[i] || b.Null[i] {
			continue
		}
		rv, cv := a.CellString(i), b.CellString(i)
		counts[[2]string{rv, cv}]++
		rowSet[rv] = true
		colSet[cv] = true
	}

	ct := &CrosstabTable{RowColumn: a.Name, ColColumn: b.Name}
	for v := range rowSet {
		ct.RowValues = append(ct.RowValues, v)
	}
	for v := range colSet {
		ct.ColValues = append(ct.ColValues, v)
	}
	sort.Strings(ct.RowValues)
	sort.Strings(ct.ColValues)

	ct.Counts = make([][]int, len(ct.RowValues))
	for i, rv := range ct.RowValues {
		ct.Counts[i] = make([]int, len(ct.ColValues))
		for j, cv := range ct.ColValues {
			ct.Counts[i][j] = counts[[2]string{rv, cv}]
		}
	}
	return ct, nil
}

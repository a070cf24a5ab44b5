package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"edabot/internal/dataset"
	"edabot/internal/eda"
	"edabot/internal/llm"
	"edabot/internal/memory"
)

func testAgent() *Agent {
	return New(llm.NewRouter(nil, nil, time.Second, 0), eda.DefaultClusterOptions())
}

func mustParse(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	return ds
}

func outlierCSV() string {
	var b strings.Builder
	b.WriteString("A,B\n")
	rows := []string{"1,5", "2,5", "3,5", "4,5", "5,5", "6,5", "7,5", "8,5", "9,5", "100,5"}
	return b.String() + strings.Join(rows, "\n") + "\n"
}

func TestRespondOutliers(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, outlierCSV())

	res := a.Respond(context.Background(), ds, logbook, "existem outliers?")
	if res.Action != ActionDualTable {
		t.Fatalf("expected dual table, got %q", res.Action)
	}

	pct, ok := res.Params["pct"].([]eda.OutlierShare)
	if !ok {
		t.Fatalf("missing pct table: %+v", res.Params)
	}
	if pct[0].Column != "A" || pct[0].Pct != 10 {
		t.Fatalf("expected A leading with 10%%, got %+v", pct[0])
	}
	if _, ok := res.Params["impact"].([]eda.OutlierImpactStat); !ok {
		t.Fatalf("missing impact table: %+v", res.Params)
	}

	if logbook.Len() != 1 {
		t.Fatalf("expected exactly one conclusion, got %d", logbook.Len())
	}
	if !strings.Contains(res.Conclusion, "A") {
		t.Errorf("conclusion should name the top offending column: %q", res.Conclusion)
	}
}

func TestRespondOutliersNoneDetected(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "A\n1\n2\n3\n4\n5\n")

	res := a.Respond(context.Background(), ds, logbook, "outliers?")
	if res.Action != ActionDualTable {
		t.Fatalf("expected dual table, got %q", res.Action)
	}
	if logbook.Len() != 1 {
		t.Fatalf("a no-outlier finding is still a conclusion")
	}
	if !strings.Contains(res.Conclusion, "Não foram detectados outliers") {
		t.Errorf("unexpected conclusion: %q", res.Conclusion)
	}
}

func TestRespondCorrelationInsufficientData(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "nome,zona\nana,norte\nrui,sul\n")

	res := a.Respond(context.Background(), ds, logbook, "correlação")
	if res.Action != ActionNone {
		t.Fatalf("expected no action, got %q", res.Action)
	}
	if !strings.Contains(res.Text, "duas colunas numéricas") {
		t.Errorf("text should explain the precondition: %q", res.Text)
	}
	if logbook.Len() != 0 {
		t.Fatalf("insufficient data must not log a conclusion")
	}
}

func TestRespondTimeseries(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "date,sales\n2024-01-01,10\n2024-01-02,20\n2024-01-03,15\n")

	res := a.Respond(context.Background(), ds, logbook, "tendência temporal")
	if res.Action != ActionTimeseries {
		t.Fatalf("expected timeseries, got %q", res.Action)
	}
	if res.Params["tcol"] != "date" || res.Params["ycol"] != "sales" {
		t.Fatalf("unexpected params: %+v", res.Params)
	}
	if logbook.Len() != 1 {
		t.Fatalf("expected one conclusion")
	}
}

func TestRespondTypesSummary(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t,
		"a,b,quando,zona,nome\n1,2,2024-01-01,norte,ana\n3,4,2024-01-02,sul,rui\n")

	res := a.Respond(context.Background(), ds, logbook, "tipos de dados")
	if res.Action != ActionTable {
		t.Fatalf("expected table, got %q", res.Action)
	}
	table, ok := res.Params["data"].([]dataset.Descriptor)
	if !ok {
		t.Fatalf("missing descriptor table: %+v", res.Params)
	}
	if len(table) != 5 {
		t.Fatalf("expected 5 descriptors, got %d", len(table))
	}
	sum, ok := res.Params["summary"].(dataset.Summary)
	if !ok || sum.Numeric != 2 || sum.Temporal != 1 || sum.Categorical != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRespondScatterUsesFirstTwoNumeric(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "x,y,z\n1,2,3\n4,5,6\n")

	res := a.Respond(context.Background(), ds, logbook, "gráfico de dispersão")
	if res.Action != ActionScatter {
		t.Fatalf("expected scatter, got %q", res.Action)
	}
	if res.Params["x"] != "x" || res.Params["y"] != "y" {
		t.Fatalf("unexpected params: %+v", res.Params)
	}
}

func TestRespondHistogramTargetsNamedColumn(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "price,qty\n10,1\n20,2\n")

	res := a.Respond(context.Background(), ds, logbook, "histograma de Price")
	if res.Action != ActionHistogram {
		t.Fatalf("expected histogram, got %q", res.Action)
	}
	if res.Params["col"] != "price" {
		t.Fatalf("expected price targeted, got %+v", res.Params)
	}
}

func TestRespondHistogramFallsBackToFirstNumeric(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "qty,zona\n1,norte\n2,sul\n")

	res := a.Respond(context.Background(), ds, logbook, "histograma")
	if res.Action != ActionHistogram || res.Params["col"] != "qty" {
		t.Fatalf("expected fallback to qty, got %+v", res)
	}
}

func TestRespondHistogramNoCandidate(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "zona\nnorte\nsul\n")

	res := a.Respond(context.Background(), ds, logbook, "histograma")
	if res.Action != ActionNone {
		t.Fatalf("expected explanatory failure, got %q", res.Action)
	}
	if logbook.Len() != 0 {
		t.Fatalf("failure must not log a conclusion")
	}
}

func TestRespondClusters(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	var b strings.Builder
	b.WriteString("x,y\n")
	for i := 0; i < 30; i++ {
		b.WriteString("1,2\n")
	}
	res := a.Respond(context.Background(), mustParse(t, b.String()), logbook, "existem clusters?")
	if res.Action != ActionTable {
		t.Fatalf("expected table, got %q", res.Action)
	}
	if logbook.Len() != 1 {
		t.Fatalf("expected one conclusion")
	}
}

func TestRespondClustersInsufficientData(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "x\n1\n2\n3\n")

	res := a.Respond(context.Background(), ds, logbook, "clusters")
	if res.Action != ActionNone {
		t.Fatalf("expected explanatory failure, got %q", res.Action)
	}
	if logbook.Len() != 0 {
		t.Fatalf("failure must not log a conclusion")
	}
}

func TestRespondDistributionLogsOnce(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "a,b,zona\n1,2,norte\n3,4,sul\n")

	res := a.Respond(context.Background(), ds, logbook, "distribuição de variáveis")
	if res.Action != ActionMultiPlot {
		t.Fatalf("expected multi plot, got %q", res.Action)
	}
	plots, ok := res.Params["plots"].([]PlotSpec)
	if !ok || len(plots) != 3 {
		t.Fatalf("expected 3 plots, got %+v", res.Params)
	}
	// Multi-part results still append exactly one conclusion.
	if logbook.Len() != 1 {
		t.Fatalf("expected one conclusion, got %d", logbook.Len())
	}
}

func TestRespondHelpOnUnmatchedQuestion(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "a\n1\n")

	res := a.Respond(context.Background(), ds, logbook, "bom dia, tudo bem?")
	if res.Action != ActionNone {
		t.Fatalf("expected no action, got %q", res.Action)
	}
	if !strings.Contains(res.Text, "Não entendi") {
		t.Errorf("expected usage help, got %q", res.Text)
	}
	if logbook.Len() != 0 {
		t.Fatalf("help must not log a conclusion")
	}
}

func TestRespondLogGrowsPerSuccessfulCall(t *testing.T) {
	a := testAgent()
	logbook := memory.NewLog()
	ds := mustParse(t, "a,b\n1,2\n3,4\n5,6\n")

	questions := []string{"média", "intervalo", "desvio padrão", "frequentes"}
	for _, q := range questions {
		a.Respond(context.Background(), ds, logbook, q)
	}
	if logbook.Len() != len(questions) {
		t.Fatalf("expected %d conclusions, got %d", len(questions), logbook.Len())
	}

	logbook.Clear()
	if logbook.Len() != 0 {
		t.Fatalf("expected empty log after clear")
	}
}

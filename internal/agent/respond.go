// Package agent routes a free-text question to the matching analysis,
// packages the outcome for the presentation layer, and records a one-line
// conclusion in the session log.
package agent

import (
	"context"
	"fmt"
	"strings"

	"edabot/internal/dataset"
	"edabot/internal/eda"
	"edabot/internal/intent"
	"edabot/internal/llm"
	"edabot/internal/memory"
)

// Action tags the shape of a Result's Params; the presentation layer
// renders solely from this tag.
type Action string

const (
	ActionNone       Action = ""
	ActionTable      Action = "table"
	ActionDualTable  Action = "dual_table"
	ActionSeriesMap  Action = "series_map"
	ActionSeries     Action = "series"
	ActionHeatmap    Action = "heatmap_corr"
	ActionScatter    Action = "scatter"
	ActionTimeseries Action = "timeseries"
	ActionHistogram  Action = "hist"
	ActionMultiPlot  Action = "multi_plot"
)

// PlotSpec names one chart of a multi-plot answer.
type PlotSpec struct {
	Kind   string `json:"kind"` // "hist" or "bar"
	Column string `json:"column"`
}

// Result is the structured answer handed to the presentation layer. Params
// keys depend entirely on Action. Conclusion is empty when nothing was
// logged (insufficient data, unresolved question).
type Result struct {
	Text       string         `json:"text"`
	Action     Action         `json:"action"`
	Params     map[string]any `json:"params"`
	Conclusion string         `json:"conclusion,omitempty"`
}

const helpText = "Não entendi. Exemplos: 'tipos de dados', 'intervalo', 'média', 'variância', " +
	"'frequentes', 'outliers', 'correlação', 'dispersão', 'tendência temporal', " +
	"'clusters', 'variáveis mais influentes', 'distribuição de variáveis', " +
	"'histograma de Price', 'tabela cruzada'."

// Agent answers questions about a dataset. One Agent serves all sessions;
// the per-session state (dataset, log) arrives per call.
type Agent struct {
	router      *llm.Router
	clusterOpts eda.ClusterOptions
	topN        int
}

func New(router *llm.Router, clusterOpts eda.ClusterOptions) *Agent {
	return &Agent{router: router, clusterOpts: clusterOpts, topN: 10}
}

// Respond classifies the question, runs the matching computation, and
// appends exactly one conclusion to the log on success. Failed
// preconditions return explanatory text with ActionNone and log nothing.
func (a *Agent) Respond(ctx context.Context, ds *dataset.Dataset, logbook *memory.Log, question string) Result {
	in, matched := a.router.Classify(ctx, question)
	if !matched {
		return Result{Text: helpText, Action: ActionNone, Params: map[string]any{}}
	}

	numCols := ds.NumericColumnNames()

	switch in {
	case intent.Outliers:
		return a.outliers(ds, logbook, question)

	case intent.Central:
		tc := eda.CentralTendency(ds)
		return a.table(logbook, question,
			"Tendência central (média/mediana):",
			fmt.Sprintf("Cálculo de média e mediana para %d coluna(s) numérica(s).", len(tc)),
			tc)

	case intent.Range:
		inter := eda.Range(ds)
		return a.table(logbook, question,
			"Intervalos (min/max) por coluna numérica:",
			fmt.Sprintf("Gerados mínimos e máximos para %d coluna(s) numérica(s).", len(inter)),
			inter)

	case intent.Dispersion:
		disp := eda.Dispersion(ds)
		return a.table(logbook, question,
			"Variabilidade (desvio/variância):",
			fmt.Sprintf("Desvio-padrão e variância calculados para %d coluna(s) numérica(s).", len(disp)),
			disp)

	case intent.Frequency:
		freqs := eda.Frequencies(ds, a.topN)
		conclusion := a.conclude(logbook, question, fmt.Sprintf("Listadas frequências para %d coluna(s).", len(freqs)))
		return Result{
			Text:       "Top frequências por coluna (top 10):",
			Action:     ActionSeriesMap,
			Params:     map[string]any{"map": freqs},
			Conclusion: conclusion,
		}

	case intent.Corr:
		if len(numCols) < 2 {
			return explain("Preciso de pelo menos duas colunas numéricas para calcular correlação.")
		}
		matrix := eda.Correlation(ds)
		conclusion := a.conclude(logbook, question, fmt.Sprintf("Heatmap de correlação entre %d variáveis numéricas.", len(numCols)))
		return Result{
			Text:       "Mapa de correlação (on-demand).",
			Action:     ActionHeatmap,
			Params:     map[string]any{"matrix": matrix},
			Conclusion: conclusion,
		}

	case intent.Scatter:
		if len(numCols) < 2 {
			return explain("Colunas numéricas insuficientes para dispersão.")
		}
		conclusion := a.conclude(logbook, question, fmt.Sprintf("Gráfico de dispersão gerado para %s vs %s.", numCols[0], numCols[1]))
		return Result{
			Text:       fmt.Sprintf("Dispersão entre %s e %s:", numCols[0], numCols[1]),
			Action:     ActionScatter,
			Params:     map[string]any{"x": numCols[0], "y": numCols[1]},
			Conclusion: conclusion,
		}

	case intent.Temporal:
		return a.temporal(ds, logbook, question, numCols)

	case intent.Clusters:
		res, err := eda.Cluster(ds, a.clusterOpts)
		if err != nil {
			return explain(err.Error() + ".")
		}
		conclusion := a.conclude(logbook, question, fmt.Sprintf("Clusterização executada (%d grupos).", len(res.Counts)))
		return Result{
			Text:       res.Summary,
			Action:     ActionTable,
			Params:     map[string]any{"data": res.Counts},
			Conclusion: conclusion,
		}

	case intent.Influence:
		if len(numCols) < 2 {
			return explain("Preciso de pelo menos duas colunas numéricas para estimar influência por correlação.")
		}
		scores := eda.InfluenceRanking(ds)
		top := scores
		if len(top) > 3 {
			top = top[:3]
		}
		var pairs []string
		for _, s := range top {
			pairs = append(pairs, fmt.Sprintf("%s (%.3f)", s.Column, s.Score))
		}
		conclusion := a.conclude(logbook, question, fmt.Sprintf("Maior centralidade de correlação: %s.", strings.Join(pairs, ", ")))
		return Result{
			Text:       "Variáveis com maior correlação média (heurística de influência):",
			Action:     ActionSeries,
			Params:     map[string]any{"series": scores},
			Conclusion: conclusion,
		}

	case intent.Distrib:
		var plots []PlotSpec
		for _, name := range numCols {
			plots = append(plots, PlotSpec{Kind: "hist", Column: name})
		}
		catCount := 0
		for _, c := range ds.NonNumericColumns() {
			plots = append(plots, PlotSpec{Kind: "bar", Column: c.Name})
			catCount++
		}
		conclusion := a.conclude(logbook, question, fmt.Sprintf("Gerados %d histogramas e %d gráficos de barras.", len(numCols), catCount))
		return Result{
			Text:       "Distribuição de variáveis numéricas e categóricas.",
			Action:     ActionMultiPlot,
			Params:     map[string]any{"plots": plots},
			Conclusion: conclusion,
		}

	case intent.Histogram:
		return a.histogram(ds, logbook, question, numCols)

	case intent.Crosstab:
		ct, err := eda.Crosstab(ds)
		if err != nil {
			return explain("Não encontrei duas colunas categóricas para tabela cruzada.")
		}
		conclusion := a.conclude(logbook, question, fmt.Sprintf("Tabela cruzada gerada para %s × %s.", ct.RowColumn, ct.ColColumn))
		return Result{
			Text:       fmt.Sprintf("Tabela cruzada entre %s e %s:", ct.RowColumn, ct.ColColumn),
			Action:     ActionTable,
			Params:     map[string]any{"data": ct},
			Conclusion: conclusion,
		}

	default: // intent.Types
		table, sum := dataset.Classify(ds)
		text := fmt.Sprintf("Detectadas %d colunas **numéricas**, %d de **data/tempo** e %d **categóricas**.",
			sum.Numeric, sum.Temporal, sum.Categorical)
		conclusion := a.conclude(logbook, question, fmt.Sprintf("Tipos de dados: %d num., %d tempo, %d categ.",
			sum.Numeric, sum.Temporal, sum.Categorical))
		return Result{
			Text:       text,
			Action:     ActionTable,
			Params:     map[string]any{"data": table, "summary": sum},
			Conclusion: conclusion,
		}
	}
}

func (a *Agent) outliers(ds *dataset.Dataset, logbook *memory.Log, question string) Result {
	pct := eda.OutlierPercentages(ds)

	var conclusion string
	flagged := false
	for _, p := range pct {
		if p.Pct > 0 {
			flagged = true
			break
		}
	}
	if !flagged {
		conclusion = a.conclude(logbook, question, "Não foram detectados outliers pelo critério IQR nas colunas numéricas.")
	} else {
		var pairs []string
		for _, p := range pct {
			if p.Pct > 0 && len(pairs) < 5 {
				pairs = append(pairs, fmt.Sprintf("%s: %.2f%%", p.Column, p.Pct))
			}
		}
		conclusion = a.conclude(logbook, question, fmt.Sprintf("Outliers identificados (IQR). Maiores incidências → %s.", strings.Join(pairs, ", ")))
	}

	return Result{
		Text:   "Outliers (IQR) e impacto:",
		Action: ActionDualTable,
		Params: map[string]any{
			"pct":    pct,
			"impact": eda.OutlierImpact(ds),
		},
		Conclusion: conclusion,
	}
}

func (a *Agent) temporal(ds *dataset.Dataset, logbook *memory.Log, question string, numCols []string) Result {
	tcol, ok := dataset.DetectTimeColumn(ds)
	if !ok {
		return explain("Não identifiquei uma coluna temporal (time, timestamp, date, datetime, year) no conjunto de dados.")
	}
	var ycols []string
	for _, name := range numCols {
		if name != tcol {
			ycols = append(ycols, name)
		}
	}
	if len(ycols) == 0 {
		return explain(fmt.Sprintf("Identifiquei a coluna temporal '%s', mas não encontrei nenhuma outra variável numérica para comparar.", tcol))
	}
	conclusion := a.conclude(logbook, question, fmt.Sprintf("Série temporal traçada: %s ao longo de %s.", ycols[0], tcol))
	return Result{
		Text:       fmt.Sprintf("Série temporal de %s vs %s:", ycols[0], tcol),
		Action:     ActionTimeseries,
		Params:     map[string]any{"tcol": tcol, "ycol": ycols[0]},
		Conclusion: conclusion,
	}
}

// histogram resolves the target column by raw substring match against the
// lowercased question. The substring match can hit a column whose name is
// embedded in an unrelated word; that looseness is kept on purpose, it is
// how users reference columns informally ("histograma de price").
func (a *Agent) histogram(ds *dataset.Dataset, logbook *memory.Log, question string, numCols []string) Result {
	qRaw := strings.ToLower(strings.TrimSpace(question))
	var target string
	for _, c := range ds.Columns {
		if strings.Contains(qRaw, strings.ToLower(c.Name)) {
			target = c.Name
			break
		}
	}
	if target == "" && len(numCols) > 0 {
		target = numCols[0]
	}
	if target == "" {
		return explain("Não encontrei coluna apropriada para histograma.")
	}
	conclusion := a.conclude(logbook, question, fmt.Sprintf("Histograma exibido para %s.", target))
	return Result{
		Text:       fmt.Sprintf("Histograma de %s:", target),
		Action:     ActionHistogram,
		Params:     map[string]any{"col": target},
		Conclusion: conclusion,
	}
}

func (a *Agent) table(logbook *memory.Log, question, text, summary string, data any) Result {
	conclusion := a.conclude(logbook, question, summary)
	return Result{
		Text:       text,
		Action:     ActionTable,
		Params:     map[string]any{"data": data},
		Conclusion: conclusion,
	}
}

func (a *Agent) conclude(logbook *memory.Log, question, summary string) string {
	rec := logbook.Append(question, summary)
	return rec.Summary
}

func explain(text string) Result {
	return Result{Text: text, Action: ActionNone, Params: map[string]any{}}
}

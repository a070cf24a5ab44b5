// Package intent maps free-text questions to the closed set of analysis
// intents the assistant knows how to answer. Matching is keyword-based,
// ordered, and accent-insensitive; it never fails.
package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Intent is one analysis operation the responder can dispatch to.
type Intent string

const (
	Types      Intent = "tipos"
	Range      Intent = "intervalo"
	Central    Intent = "tendencia_central"
	Dispersion Intent = "variabilidade"
	Frequency  Intent = "frequencias"
	Outliers   Intent = "outliers"
	Corr       Intent = "correlacao"
	Scatter    Intent = "dispersao"
	Temporal   Intent = "temporal"
	Clusters   Intent = "clusters"
	Influence  Intent = "influencia"
	Distrib    Intent = "distribuicao"
	Crosstab   Intent = "tabela_cruzada"

	// Histogram is matched by keyword only; it is not part of the
	// vocabulary offered to the soft classifier.
	Histogram Intent = "histograma"
)

// Categories is the vocabulary the soft classifier may answer with.
var Categories = []Intent{
	Types, Range, Central, Dispersion, Frequency, Outliers, Corr,
	Scatter, Temporal, Clusters, Influence, Distrib, Crosstab,
}

// Valid reports whether s names one of the soft-classifier intents.
func Valid(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

type rule struct {
	intent   Intent
	keywords []string
}

// rules are evaluated in order against the normalized question; the first
// substring hit wins. Order defines precedence between overlapping keyword
// sets: "tendencia temporal" must hit the temporal rule even though the
// central-tendency rule also knows "tendencia central".
var rules = []rule{
	{Outliers, []string{"outlier", "atipic"}},
	{Central, []string{"tendencia central", "media", "mediana"}},
	{Range, []string{"intervalo", "min", "max", "minimo", "maximo"}},
	{Dispersion, []string{"desvio", "varianc"}},
	{Frequency, []string{"frequent", "moda"}},
	{Corr, []string{"correlac"}},
	{Scatter, []string{"dispers", "scatter"}},
	{Temporal, []string{"tendenc", "temporal", "serie"}},
	{Clusters, []string{"cluster", "agrup"}},
	{Influence, []string{"influenc", "importanc"}},
	{Distrib, []string{"distribuic"}},
	{Histogram, []string{"histogram"}},
	{Crosstab, []string{"tabela cruzada", "crosstab"}},
	{Types, []string{"tipo", "categ", "numer", "dtype"}},
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases and strips diacritics so "média" and "media" match
// the same rules.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// Match resolves a question to an intent via the ordered rule table. The
// boolean is false when no rule fired; the returned intent is then the
// default type summary, keeping Classify total.
func Match(question string) (Intent, bool) {
	q := Normalize(question)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.intent, true
			}
		}
	}
	return Types, false
}

// Classify is the total classifier: every input yields exactly one intent,
// falling back to the type summary when nothing matches.
func Classify(question string) Intent {
	in, _ := Match(question)
	return in
}

// Package llm holds the optional network-backed question classifier. It is
// advisory only: any failure, timeout, or out-of-vocabulary answer falls
// back to the deterministic keyword classifier, which stays the system of
// record.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"edabot/internal/intent"
)

// Classifier produces a single category token for a question. Providers
// return the raw model text; normalization and validation happen here.
type Classifier interface {
	ClassifyIntent(ctx context.Context, question string) (string, error)
}

func buildPrompt(question string) string {
	var cats []string
	for _, c := range intent.Categories {
		cats = append(cats, string(c))
	}
	return fmt.Sprintf(`Você é um classificador para análise exploratória de dados (EDA).
Receba a pergunta do usuário e responda APENAS com UMA das categorias abaixo (exatamente como escrito):
%s

Pergunta: %q
Responda SOMENTE com a categoria.`, strings.Join(cats, ", "), question)
}

// synonyms folds common near-miss answers onto canonical intents.
var synonyms = map[string]intent.Intent{
	"media":             intent.Central,
	"mediana":           intent.Central,
	"tendenciacentral":  intent.Central,
	"correlacoes":       intent.Corr,
	"distribuicoes":     intent.Distrib,
	"tabelacruzada":     intent.Crosstab,
	"desvio":            intent.Dispersion,
	"variancia":         intent.Dispersion,
	"frequentes":        intent.Frequency,
	"moda":              intent.Frequency,
	"tendenciatemporal": intent.Temporal,
	"serie":             intent.Temporal,
	"scatter":           intent.Scatter,
}

// normalizeResponse strips everything outside [a-z_] from a model answer
// and validates it against the intent vocabulary.
func normalizeResponse(raw string) (intent.Intent, error) {
	s := intent.Normalize(raw)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || r == '_' {
			b.WriteRune(r)
		}
	}
	token := b.String()
	if intent.Valid(token) {
		return intent.Intent(token), nil
	}
	if in, ok := synonyms[token]; ok {
		return in, nil
	}
	return "", fmt.Errorf("resposta fora do vocabulário: %q", raw)
}

// Router composes the optional soft classifier with the keyword rules.
// The soft call is bounded by a short timeout and a rate limiter; every
// failure path is absorbed silently.
type Router struct {
	soft     Classifier
	glossary *intent.Glossary
	timeout  time.Duration
	limiter  *rate.Limiter
}

// NewRouter wires an optional soft classifier. soft may be nil, in which
// case only the deterministic path runs. perMinute caps outbound calls.
func NewRouter(soft Classifier, glossary *intent.Glossary, timeout time.Duration, perMinute int) *Router {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	var limiter *rate.Limiter
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	return &Router{soft: soft, glossary: glossary, timeout: timeout, limiter: limiter}
}

// Classify resolves a question to an intent. The boolean mirrors
// intent.Match: false means nothing matched and the caller should answer
// with usage help. Glossary overrides win over everything; a valid soft
// answer wins over the keyword table; the keyword table always decides on
// soft failure.
func (r *Router) Classify(ctx context.Context, question string) (intent.Intent, bool) {
	if in, ok := r.glossary.Match(question); ok {
		return in, true
	}
	if r.soft != nil && (r.limiter == nil || r.limiter.Allow()) {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		raw, err := r.soft.ClassifyIntent(cctx, question)
		cancel()
		if err == nil {
			if in, err := normalizeResponse(raw); err == nil {
				return in, true
			} else {
				log.Printf("llm classify descartado: %v", err)
			}
		} else {
			log.Printf("llm classify fallback: %v", err)
		}
	}
	return intent.Match(question)
}

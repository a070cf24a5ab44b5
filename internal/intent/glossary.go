package intent

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Glossary carries deployment-specific phrase overrides checked before the
// built-in rule table, so domain wording ("churn", "ticket médio") can be
// pinned to an intent without touching code.
type Glossary struct {
	Terms []GlossaryTerm `yaml:"terms"`
}

type GlossaryTerm struct {
	Phrase string `yaml:"phrase"`
	Intent string `yaml:"intent"`
}

// LoadGlossary reads a glossary yaml file. Terms naming an unknown intent
// are dropped with no error; the file is advisory.
func LoadGlossary(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}
	var g Glossary
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse glossary yaml: %w", err)
	}
	var kept []GlossaryTerm
	for _, t := range g.Terms {
		if Valid(strings.TrimSpace(t.Intent)) && strings.TrimSpace(t.Phrase) != "" {
			kept = append(kept, t)
		}
	}
	g.Terms = kept
	return &g, nil
}

// Match returns the override intent for a question, if any phrase occurs in
// its normalized text.
func (g *Glossary) Match(question string) (Intent, bool) {
	if g == nil {
		return "", false
	}
	q := Normalize(question)
	for _, t := range g.Terms {
		if strings.Contains(q, Normalize(t.Phrase)) {
			return Intent(strings.TrimSpace(t.Intent)), true
		}
	}
	return "", false
}

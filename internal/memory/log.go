// Package memory keeps the session's running conclusions: an append-only
// log of (question, summary) records plus an optional sqlite store that
// mirrors every mutation.
package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const maxSummaryLen = 600

const emptyDigest = "Ainda não há conclusões registradas. Faça perguntas ao agente e volte aqui."

// Record is one logged conclusion. Records are never edited or reordered.
type Record struct {
	Timestamp time.Time `json:"ts"`
	Question  string    `json:"question"`
	Summary   string    `json:"summary"`
}

// Log is the session-scoped conclusion log. It is owned by exactly one
// session and mutated only by Append and Clear. Concurrent requests on the
// same session reach the same Log, so every access goes through the mutex;
// the hooks run under it too, which keeps the store in insertion order.
type Log struct {
	mu      sync.Mutex
	records []Record
	now     func() time.Time

	// OnAppend and OnClear, when set, mirror mutations to a persistence
	// layer. Persistence errors never affect the in-memory log. Set both
	// before the log is shared.
	OnAppend func(Record)
	OnClear  func()
}

func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append stores a trimmed (question, summary) record with the current
// timestamp. Summaries longer than 600 characters are truncated with an
// ellipsis marker.
func (l *Log) Append(question, summary string) Record {
	rec := Record{
		Timestamp: l.now(),
		Question:  strings.TrimSpace(question),
		Summary:   Truncate(strings.TrimSpace(summary)),
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	if l.OnAppend != nil {
		l.OnAppend(rec)
	}
	return rec
}

// Records returns the log in insertion order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of logged conclusions.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Clear removes every record.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	if l.OnClear != nil {
		l.OnClear()
	}
}

// Render formats the whole log as a numbered Markdown digest, or a fixed
// message when empty.
func (l *Log) Render() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) == 0 {
		return emptyDigest
	}
	lines := []string{"### Conclusões do agente", ""}
	for i, rec := range l.records {
		lines = append(lines, fmt.Sprintf(
			"**%d.** _%s_  \n**Pergunta:** %s  \n**Conclusão:** %s",
			i+1, rec.Timestamp.Format("2006-01-02T15:04:05"), rec.Question, rec.Summary,
		))
	}
	return strings.Join(lines, "\n\n")
}

// Truncate caps a summary at 600 characters, appending "…" when cut.
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSummaryLen {
		return s
	}
	return string(runes[:maxSummaryLen]) + "…"
}

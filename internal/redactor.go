package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Redactor applies secret detection and pseudonymization to text. Secrets
// become category-tagged placeholders; usernames and paths become stable
// pseudonyms via the Anonymizer.
type Redactor struct {
	lib          *PatternLibrary
	anon         *Anonymizer
	maxToolInput int
}

// NewRedactor builds a redactor from config, sharing the anonymizer so
// pseudonyms and audit records flow through one place.
func NewRedactor(cfg Config, anon *Anonymizer) *Redactor {
	return &Redactor{
		lib:          NewPatternLibrary(cfg),
		anon:         anon,
		maxToolInput: DefaultMaxToolInputChars,
	}
}

// placeholder formats the category-tagged replacement for a secret
func placeholder(category string) string {
	return "[REDACTED:" + category + "]"
}

// Redact replaces detected secrets in text with placeholders and returns
// the matches that were applied. Overlapping candidates are resolved by a
// greedy non-overlapping cover preferring the earliest-starting, longest
// match. Redaction never fails: malformed input passes through unchanged.
func (r *Redactor) Redact(text string) (string, []Match) {
	if text == "" {
		return text, nil
	}

	var candidates []Match
	for m := range r.lib.Matches(text) {
		candidates = append(candidates, m)
	}
	applied := resolveOverlaps(candidates)
	if len(applied) == 0 {
		return text, nil
	}

	var b strings.Builder
	pos := 0
	for _, m := range applied {
		b.WriteString(text[pos:m.Start])
		b.WriteString(placeholder(m.Category))
		pos = m.End()
	}
	b.WriteString(text[pos:])

	return b.String(), applied
}

// resolveOverlaps keeps a greedy non-overlapping cover of the candidates.
// Input is ordered by ascending start with longer matches first on ties,
// so a simple sweep suffices.
func resolveOverlaps(candidates []Match) []Match {
	var kept []Match
	end := 0
	for _, m := range candidates {
		if m.Start < end {
			continue
		}
		kept = append(kept, m)
		end = m.End()
	}
	return kept
}

// RedactToolInput flattens a tool input, redacts secrets, anonymizes
// identities, and only then truncates for display. Truncating first could
// split a secret at the boundary and leak a recognizable fragment, so the
// ordering is an invariant, not a preference.
func (r *Redactor) RedactToolInput(in ToolInput) (string, []Match, error) {
	flat := in.Flatten()
	redacted, matches := r.Redact(flat)

	anonymized, err := r.anon.Text(redacted)
	if err != nil {
		return "", nil, err
	}

	if len(anonymized) > r.maxToolInput {
		anonymized = anonymized[:r.maxToolInput]
	}
	return anonymized, matches, nil
}

// RedactionReport counts applied matches by category, for the
// human-reviewable pre-publish summary.
type RedactionReport struct {
	ByCategory map[string]int
}

// Total returns the number of matches across all categories
func (rep RedactionReport) Total() int {
	n := 0
	for _, c := range rep.ByCategory {
		n += c
	}
	return n
}

func (rep *RedactionReport) add(matches []Match) {
	for _, m := range matches {
		if rep.ByCategory == nil {
			rep.ByCategory = make(map[string]int)
		}
		rep.ByCategory[m.Category]++
	}
}

// String renders the report as one line per category
func (rep RedactionReport) String() string {
	if len(rep.ByCategory) == 0 {
		return "no matches"
	}
	keys := make([]string, 0, len(rep.ByCategory))
	for k := range rep.ByCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, rep.ByCategory[k]))
	}
	return strings.Join(parts, " ")
}

// RedactSession produces a derived, fully redacted copy of a session. The
// original is never mutated. The returned report summarizes secret matches
// by category for operator review before publishing.
func (r *Redactor) RedactSession(session *Session) (*Session, RedactionReport, error) {
	report := RedactionReport{}
	r.anon.Context = session.ID
	defer func() { r.anon.Context = "" }()

	out := *session
	out.Messages = make([]Message, 0, len(session.Messages))

	for _, msg := range session.Messages {
		redMsg := msg

		content, matches := r.Redact(msg.Content)
		report.add(matches)
		content, err := r.anon.Text(content)
		if err != nil {
			return nil, report, err
		}
		redMsg.Content = content

		if msg.Thinking != "" {
			thinking, matches := r.Redact(msg.Thinking)
			report.add(matches)
			thinking, err := r.anon.Text(thinking)
			if err != nil {
				return nil, report, err
			}
			redMsg.Thinking = thinking
		}

		if len(msg.ToolUses) > 0 {
			redMsg.ToolUses = make([]ToolUse, 0, len(msg.ToolUses))
			for _, tu := range msg.ToolUses {
				summary, matches, err := r.RedactToolInput(tu.Input)
				if err != nil {
					return nil, report, err
				}
				report.add(matches)
				redMsg.ToolUses = append(redMsg.ToolUses, ToolUse{
					Tool:  tu.Tool,
					Input: TextInput(summary),
				})
			}
		}

		out.Messages = append(out.Messages, redMsg)
	}

	return &out, report, nil
}

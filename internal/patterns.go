package internal

import (
	"iter"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Match is one candidate redaction span found in a piece of text. Matches
// are ephemeral; they are produced during redaction and never persisted.
type Match struct {
	Start    int
	Length   int
	Text     string
	Category string
	Severity string // "high", "medium", "low"
}

// End returns the offset one past the match
func (m Match) End() int {
	return m.Start + m.Length
}

// Rule pairs a category with its anchored detection regex
type Rule struct {
	Category string
	Severity string
	Regex    *regexp.Regexp
}

// Secret and PII detection rules. Vendor rules are anchored on known key
// prefixes to keep the false-positive rate down; entropy catches the rest.
// Order matters: earlier rules win ties during overlap resolution.
var secretRules = []Rule{
	{"private_key", "high", regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY(?: BLOCK)?-----(?s:.*?)-----END (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY(?: BLOCK)?-----`)},
	{"aws_key", "high", regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{"github_token", "high", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{"slack_token", "high", regexp.MustCompile(`\bxox[bporas]-[A-Za-z0-9-]{10,}\b`)},
	{"anthropic_key", "high", regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_-]{20,}\b`)},
	{"openai_key", "high", regexp.MustCompile(`\bsk-[A-Za-z0-9]{20,}\b`)},
	{"stripe_key", "high", regexp.MustCompile(`\b[sr]k_(?:live|test)_[A-Za-z0-9]{16,}\b`)},
	{"google_key", "high", regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`)},
	{"jwt", "high", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`)},
	{"bearer_token", "high", regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._=-]{20,}`)},
	{"connection_string", "high", regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqps?)://[^\s:@/]+:[^\s@]+@[^\s"']+`)},
	{"webhook_url", "high", regexp.MustCompile(`https://hooks\.slack\.com/services/T[A-Za-z0-9]+/B[A-Za-z0-9]+/[A-Za-z0-9]+|https://discord(?:app)?\.com/api/webhooks/\d+/[A-Za-z0-9_-]+`)},
	{"assignment", "medium", regexp.MustCompile(`(?i)\b(?:api[_-]?key|apikey|api[_-]?secret|secret|token|password|passwd|credential)\s*[:=]\s*["']?[A-Za-z0-9/+=_-]{8,}["']?`)},
	{"email", "medium", regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)},
}

// quotedString feeds the entropy heuristic; only quoted literals are
// considered to keep prose and code identifiers out of it.
var quotedString = regexp.MustCompile(`["']([A-Za-z0-9/+=_-]{16,})["']`)

// UsernamePattern matches a bare username at non-alphanumeric boundaries.
// \b treats underscore as a word character, which is wrong for usernames
// like bob_dev, so explicit boundary groups are used instead.
func UsernamePattern(username string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(username)
	return regexp.MustCompile(`(?i)(^|[^a-zA-Z0-9])` + escaped + `($|[^a-zA-Z0-9])`)
}

// HomeDirPattern matches home-directory path shapes that embed a username:
// /Users/u, /home/u, \Users\u, and the hyphen-encoded -Users-u- variant
// produced by Claude Code project directory names.
func HomeDirPattern(username string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(username)
	return regexp.MustCompile(`(?i)([/\\-]+(?:Users|home)[/\\-]+)` + escaped + `($|[^a-zA-Z0-9])`)
}

// PatternLibrary is the configured set of secret/PII detection rules plus
// the entropy heuristic and any always-redact literals from config.
type PatternLibrary struct {
	rules            []Rule
	literals         []string
	entropyThreshold float64
	entropyMinLength int
}

// NewPatternLibrary builds a library from config. Entropy thresholds and
// extra literal strings come from the config, never from package state.
func NewPatternLibrary(cfg Config) *PatternLibrary {
	lib := &PatternLibrary{
		rules:            secretRules,
		entropyThreshold: cfg.Entropy.Threshold,
		entropyMinLength: cfg.Entropy.MinLength,
	}
	for _, s := range cfg.RedactStrings {
		if s != "" {
			lib.literals = append(lib.literals, s)
		}
	}
	return lib
}

// Matches yields candidate matches ordered by ascending start offset. The
// sequence is single-use; overlapping candidates are yielded as-is and
// resolved by the redactor.
func (lib *PatternLibrary) Matches(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for _, m := range lib.collect(text) {
			if !yield(m) {
				return
			}
		}
	}
}

func (lib *PatternLibrary) collect(text string) []Match {
	var matches []Match

	for _, rule := range lib.rules {
		for _, loc := range rule.Regex.FindAllStringIndex(text, -1) {
			matches = append(matches, Match{
				Start:    loc[0],
				Length:   loc[1] - loc[0],
				Text:     text[loc[0]:loc[1]],
				Category: rule.Category,
				Severity: rule.Severity,
			})
		}
	}

	for _, lit := range lib.literals {
		for idx := 0; ; {
			i := strings.Index(text[idx:], lit)
			if i < 0 {
				break
			}
			matches = append(matches, Match{
				Start:    idx + i,
				Length:   len(lit),
				Text:     lit,
				Category: "literal",
				Severity: "high",
			})
			idx += i + len(lit)
		}
	}

	for _, loc := range quotedString.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		candidate := text[start:end]
		if len(candidate) < lib.entropyMinLength {
			continue
		}
		if strings.HasPrefix(candidate, "REDACTED") || strings.HasPrefix(candidate, "user_") {
			continue
		}
		if ShannonEntropy(candidate) >= lib.entropyThreshold {
			matches = append(matches, Match{
				Start:    start,
				Length:   end - start,
				Text:     candidate,
				Category: "high_entropy",
				Severity: "low",
			})
		}
	}

	// Ascending start; longer match first on ties so the redactor's greedy
	// sweep sees the preferred candidate first. The sort is stable, so rule
	// order breaks remaining ties.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		return matches[i].Length > matches[j].Length
	})

	return matches
}

// ShannonEntropy computes the character-distribution entropy of s in bits.
// Random base64/hex secrets score well above natural language.
func ShannonEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	freq := make(map[rune]int)
	total := 0
	for _, r := range s {
		freq[r]++
		total++
	}
	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

package internal

import "strings"

// stopWords are dropped from the index. The set is intentionally small:
// conversation logs are full of code, and aggressive stop-wording hurts
// recall more than it saves space.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"to": true, "of": true, "in": true, "is": true, "it": true,
	"for": true, "on": true, "with": true, "this": true, "that": true,
	"be": true, "as": true, "at": true, "by": true,
}

// isTokenChar reports whether c continues a token. Dots, slashes, hyphens
// and underscores are kept so file paths and identifiers survive intact;
// paths are the most common thing people search their own logs for.
func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '.' || c == '/' || c == '_' || c == '-':
		return true
	}
	return false
}

// Tokenize lowercases text and splits it into index terms. A path token
// like /users/alice/proj/file.py is emitted whole and additionally as its
// segments, so both the full path and "file.py" are searchable.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		emitToken(lower[start:end], &tokens)
		start = -1
	}

	for i := 0; i < len(lower); i++ {
		if isTokenChar(lower[i]) {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(lower))

	return tokens
}

func emitToken(raw string, tokens *[]string) {
	tok := strings.Trim(raw, "./-_")
	if tok == "" {
		return
	}

	if !stopWords[tok] && len(tok) > 1 {
		*tokens = append(*tokens, tok)
	}

	// Path-like tokens also index their segments.
	if strings.Contains(tok, "/") {
		for _, seg := range strings.Split(tok, "/") {
			seg = strings.Trim(seg, ".-_")
			if seg == "" || stopWords[seg] || len(seg) <= 1 {
				continue
			}
			*tokens = append(*tokens, seg)
		}
	}
}

// TermFrequencies tokenizes text and counts each term
func TermFrequencies(text string) map[string]int {
	freqs := make(map[string]int)
	for _, tok := range Tokenize(text) {
		freqs[tok]++
	}
	return freqs
}

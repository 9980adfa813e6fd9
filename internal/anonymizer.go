package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Pseudonym derives the stable substitute token for a sensitive value.
// It is a pure function of (salt, value): the same input yields the same
// pseudonym in every session, process, and index rebuild. Cross-references
// in redacted data stay intact because the same identity always maps to
// the same token.
func Pseudonym(salt, value string) string {
	sum := sha256.Sum256([]byte(salt + value))
	return "user_" + hex.EncodeToString(sum[:])[:8]
}

// nameEntry is one identity the anonymizer knows how to replace
type nameEntry struct {
	name      string
	pseudonym string
	bare      *regexp.Regexp // nil for names too short to match bare
	home      *regexp.Regexp
}

// Anonymizer replaces usernames and home-directory paths with stable
// pseudonyms. It is deterministic: output depends only on the input text,
// the configured salt, and the configured username list. Every successful
// replacement appends exactly one AuditRecord to the sink; if the sink
// cannot be written, the operation fails rather than proceed unlogged.
type Anonymizer struct {
	sink    AuditSink
	entries []nameEntry

	// Context labels emitted audit records, typically a session ID.
	Context string
}

// minBareLength guards against false positives: a 3-character username
// like "bob" appears in too many unrelated words to replace bare, so short
// names are only replaced inside home-directory path shapes.
const minBareLength = 4

// NewAnonymizer builds an anonymizer for the OS user plus any extra
// usernames from config. Extra names shorter than minBareLength or equal
// to the OS username are dropped.
func NewAnonymizer(cfg Config, sink AuditSink) *Anonymizer {
	a := &Anonymizer{sink: sink}

	username := detectUsername()
	if username != "" {
		a.addName(cfg.Salt, username, true)
	}

	seen := map[string]bool{strings.ToLower(username): true}
	for _, name := range cfg.RedactUsernames {
		name = strings.TrimSpace(name)
		if name == "" || len(name) < minBareLength || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		a.addName(cfg.Salt, name, false)
	}

	// Longest name first so "alicesmith" is replaced before "alice" gets a
	// chance to split it.
	sort.SliceStable(a.entries, func(i, j int) bool {
		return len(a.entries[i].name) > len(a.entries[j].name)
	})

	return a
}

func (a *Anonymizer) addName(salt, name string, isOSUser bool) {
	entry := nameEntry{
		name:      name,
		pseudonym: Pseudonym(salt, name),
		home:      HomeDirPattern(name),
	}
	if len(name) >= minBareLength {
		entry.bare = UsernamePattern(name)
	} else if !isOSUser {
		return
	}
	a.entries = append(a.entries, entry)
}

// detectUsername returns the basename of the home directory, matching how
// the logs themselves embed the username in paths.
func detectUsername() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Base(home)
}

// Text replaces all known identities in content with their pseudonyms.
// Unmatched text passes through unchanged; that is not an error. The only
// failure mode is an unwritable audit sink.
func (a *Anonymizer) Text(content string) (string, error) {
	if content == "" || len(a.entries) == 0 {
		return content, nil
	}

	lower := strings.ToLower(content)
	result := content
	for _, entry := range a.entries {
		if !strings.Contains(lower, strings.ToLower(entry.name)) {
			continue
		}

		var re *regexp.Regexp
		if entry.bare != nil {
			re = entry.bare
		} else {
			re = entry.home
		}

		replaced, count := replaceName(result, re, entry.pseudonym)
		if count == 0 {
			continue
		}
		for i := 0; i < count; i++ {
			if err := a.sink.Append(AuditRecord{
				Timestamp: auditNow(),
				Category:  "username",
				Pseudonym: entry.pseudonym,
				Context:   a.Context,
			}); err != nil {
				return content, err
			}
		}
		result = replaced
		lower = strings.ToLower(result)
	}

	return result, nil
}

// Path anonymizes a filesystem path. Same rules as Text; the separate
// entry point mirrors how callers think about the two kinds of input.
func (a *Anonymizer) Path(filePath string) (string, error) {
	return a.Text(filePath)
}

// replaceName substitutes the name captured between the two boundary
// groups of re, preserving the boundary text itself. The scan resumes at
// the name's end so an immediately following boundary character can still
// open the next match.
func replaceName(text string, re *regexp.Regexp, pseudonym string) (string, int) {
	var b strings.Builder
	count := 0
	pos := 0

	for pos <= len(text) {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			b.WriteString(text[pos:])
			break
		}

		// Group layout: (prefix) name (suffix); the name spans the gap
		// between group 1's end and group 2's start.
		matchStart := pos + loc[0]
		nameStart := pos + loc[3]
		nameEnd := pos + loc[4]

		// An empty prefix group means the ^ anchor fired, which is only a
		// real string boundary when scanning from the true start.
		if loc[2] == loc[3] && pos != 0 && matchStart == pos {
			prev := text[pos-1]
			if isAlphanumeric(prev) {
				b.WriteString(text[pos:nameEnd])
				pos = nameEnd
				continue
			}
		}

		b.WriteString(text[pos:nameStart])
		b.WriteString(pseudonym)
		count++
		pos = nameEnd
	}

	return b.String(), count
}

func isAlphanumeric(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// PassthroughAnonymizer returns input unchanged. The indexer uses it when
// raw content is wanted on purpose (the index never leaves the machine).
type PassthroughAnonymizer struct{}

// Text returns content unchanged
func (PassthroughAnonymizer) Text(content string) (string, error) { return content, nil }

// Path returns filePath unchanged
func (PassthroughAnonymizer) Path(filePath string) (string, error) { return filePath, nil }

// TextAnonymizer is the display-time anonymization seam: the real
// Anonymizer for user-facing output, PassthroughAnonymizer for raw debug
// output and internal index writes.
type TextAnonymizer interface {
	Text(content string) (string, error)
	Path(filePath string) (string, error)
}

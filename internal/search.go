package internal

import (
	"math"
	"sort"
	"strings"
)

// SearchResult is one ranked hit, constructed per query. The snippet has
// already been through the redactor/anonymizer unless the caller went
// through the explicit raw path.
type SearchResult struct {
	SessionID  string  `json:"session_id"`
	Project    string  `json:"project,omitempty"`
	StartTime  string  `json:"start_time,omitempty"`
	Score      float64 `json:"score"`
	Confidence int     `json:"confidence"`
	Snippet    string  `json:"snippet"`
}

// SearchEngine runs BM25-ranked queries over the store. Raw content backs
// the ranking and snippet extraction; anonymization is applied to the
// snippet as the final step before a result leaves this package.
type SearchEngine struct {
	store    *Store
	redactor *Redactor
	anon     *Anonymizer
	k1       float64
	b        float64
	window   int
}

// NewSearchEngine wires a search engine over an open store
func NewSearchEngine(store *Store, cfg Config, redactor *Redactor, anon *Anonymizer) *SearchEngine {
	return &SearchEngine{
		store:    store,
		redactor: redactor,
		anon:     anon,
		k1:       cfg.Search.K1,
		b:        cfg.Search.B,
		window:   DefaultSnippetWindow,
	}
}

// Search returns ranked, redacted results. Empty queries and queries with
// no hits return an empty slice, not an error.
func (e *SearchEngine) Search(query string, limit, minConfidence int) ([]SearchResult, error) {
	return e.search(query, limit, minConfidence, false)
}

// SearchRaw skips display-time anonymization. This is a deliberate,
// separately-flagged path for debugging only; nothing defaults to it.
func (e *SearchEngine) SearchRaw(query string, limit, minConfidence int) ([]SearchResult, error) {
	return e.search(query, limit, minConfidence, true)
}

func (e *SearchEngine) search(query string, limit, minConfidence int, raw bool) ([]SearchResult, error) {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	stats, err := e.store.Stats()
	if err != nil {
		return nil, err
	}
	if stats.DocumentCount == 0 {
		return nil, nil
	}
	avgLen := stats.AvgDocLength
	if avgLen <= 0 {
		avgLen = 1
	}

	scores := make(map[string]float64)
	docs := make(map[string]*Document)

	for _, term := range terms {
		postings, err := e.store.Postings(term)
		if err != nil {
			return nil, err
		}
		if len(postings) == 0 {
			continue
		}

		df := float64(len(postings))
		n := float64(stats.DocumentCount)
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))

		for _, p := range postings {
			doc := docs[p.SessionID]
			if doc == nil {
				doc, err = e.store.Document(p.SessionID)
				if err != nil {
					return nil, err
				}
				if doc == nil {
					continue
				}
				docs[p.SessionID] = doc
			}

			tf := float64(p.Freq)
			norm := 1 - e.b + e.b*float64(doc.Length)/avgLen
			scores[p.SessionID] += idf * tf * (e.k1 + 1) / (tf + e.k1*norm)
		}
	}

	if len(scores) == 0 {
		return nil, nil
	}

	ranked := make([]SearchResult, 0, len(scores))
	for id, score := range scores {
		doc := docs[id]
		ranked = append(ranked, SearchResult{
			SessionID: id,
			Project:   doc.Project,
			StartTime: doc.StartTime,
			Score:     score,
		})
	}

	// Score descending; recency breaks ties (most recent session first).
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].StartTime != ranked[j].StartTime {
			return ranked[i].StartTime > ranked[j].StartTime
		}
		return ranked[i].SessionID < ranked[j].SessionID
	})

	// Confidence is the score rescaled against this query's distribution:
	// the top result maps to 100.
	top := ranked[0].Score
	results := make([]SearchResult, 0, len(ranked))
	for _, r := range ranked {
		r.Confidence = int(r.Score/top*100 + 0.5)
		if r.Confidence < minConfidence {
			continue
		}

		snippet := extractSnippet(docs[r.SessionID].Content, terms, e.window)
		if !raw {
			redacted, _ := e.redactor.Redact(snippet)
			e.anon.Context = r.SessionID
			redacted, err := e.anon.Text(redacted)
			e.anon.Context = ""
			if err != nil {
				return nil, err
			}
			snippet = redacted
		}
		r.Snippet = snippet

		results = append(results, r)
		if limit > 0 && len(results) >= limit {
			break
		}
	}

	return results, nil
}

// extractSnippet finds the first query-term occurrence and expands a fixed
// context window around it. Falls back to the document head when no term
// occurs literally (e.g. the hit came from a path segment).
func extractSnippet(content string, terms []string, window int) string {
	lower := strings.ToLower(content)

	pos := -1
	termLen := 0
	for _, term := range terms {
		if i := strings.Index(lower, term); i >= 0 && (pos < 0 || i < pos) {
			pos = i
			termLen = len(term)
		}
	}
	if pos < 0 {
		pos = 0
	}

	start := pos - window
	if start < 0 {
		start = 0
	}
	end := pos + termLen + window
	if end > len(content) {
		end = len(content)
	}

	snippet := strings.TrimSpace(content[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet += "..."
	}
	return snippet
}

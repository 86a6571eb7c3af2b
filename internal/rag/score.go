package rag

import (
	"strings"
	"unicode/utf8"
)

// Field weights and bonuses for the per-document total.
const (
	nameWeight     = 2.0
	topicWeight    = 1.8
	summaryWeight  = 1.2
	substringBonus = 1.5
)

// Fuzzy token matching only considers pairs whose shorter token has at most
// fuzzyMaxTokenLen runes.
const (
	fuzzyMaxTokenLen = 6
	exactTokenCredit = 1.0
	nearTokenCredit  = 0.8 // edit distance 1
	farTokenCredit   = 0.4 // edit distance 2
)

// query holds the normalized form of a search string, computed once per ranking call.
type query struct {
	normalized string
	tokens     []string
}

func newQuery(raw string) query {
	normalized := Normalize(raw)
	return query{
		normalized: normalized,
		tokens:     strings.Fields(normalized),
	}
}

// Overlap returns the fraction of query tokens (counted per occurrence) that
// appear in text. The result is in [0,1] and is 0 for an empty query.
func Overlap(text, q string) float64 {
	return newQuery(q).overlap(text)
}

// Fuzzy returns the average per-token credit of the query against text:
// 1 for an exact token, 0.8 for a short token within edit distance 1 and
// 0.4 within distance 2. Each query token takes the first text token that
// matches, so its credit never exceeds 1.
func Fuzzy(text, q string) float64 {
	return newQuery(q).fuzzy(text)
}

// Score returns the weighted relevance of doc for the raw query string.
func Score(doc Document, q string) float64 {
	return newQuery(q).score(doc)
}

func (q query) overlap(text string) float64 {
	if len(q.tokens) == 0 {
		return 0
	}

	textTokens := strings.Fields(Normalize(text))
	if len(textTokens) == 0 {
		return 0
	}
	textSet := make(map[string]struct{}, len(textTokens))
	for _, token := range textTokens {
		textSet[token] = struct{}{}
	}

	var hits int
	for _, token := range q.tokens {
		if _, ok := textSet[token]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(q.tokens))
}

func (q query) fuzzy(text string) float64 {
	if len(q.tokens) == 0 {
		return 0
	}

	textTokens := strings.Fields(Normalize(text))
	var total float64
	for _, qt := range q.tokens {
		total += tokenCredit(qt, textTokens)
	}
	return total / float64(len(q.tokens))
}

// tokenCredit scans textTokens in order and returns the credit of the first match.
func tokenCredit(qt string, textTokens []string) float64 {
	qLen := utf8.RuneCountInString(qt)
	for _, tt := range textTokens {
		if qt == tt {
			return exactTokenCredit
		}
		if min(qLen, utf8.RuneCountInString(tt)) > fuzzyMaxTokenLen {
			continue
		}
		switch d := Distance(qt, tt); {
		case d <= 1:
			return nearTokenCredit
		case d <= 2:
			return farTokenCredit
		}
	}
	return 0
}

// substring reports whether the whole normalized query occurs in the
// normalized name, summary and tags.
func (q query) substring(doc Document) bool {
	if q.normalized == "" {
		return false
	}
	haystack := Normalize(doc.Name + " " + doc.Summary + " " + strings.Join(doc.Tags, " "))
	return strings.Contains(haystack, q.normalized)
}

func (q query) score(doc Document) float64 {
	score := nameWeight * q.overlap(doc.Name)
	score += topicWeight * q.overlap(doc.Topic)
	for _, tag := range doc.Tags {
		score += q.overlap(tag)
	}
	score += summaryWeight * q.overlap(doc.Summary)
	score += q.fuzzy(doc.Name + " " + doc.Topic + " " + strings.Join(doc.Tags, " "))
	if q.substring(doc) {
		score += substringBonus
	}
	return score
}

package rag

import "sort"

// Rank scores every document against the query and returns them ordered by
// score, highest first. Documents with equal scores keep their input order.
// The input slice is not modified.
func Rank(docs []Document, q string) []ScoredDocument {
	prepared := newQuery(q)

	ranked := make([]ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		ranked = append(ranked, ScoredDocument{
			Document: doc,
			Score:    prepared.score(doc),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopRelevant keeps the entries scoring strictly above minScore, truncated to
// maxCount. A maxCount of zero or less means no cap. An empty result means
// nothing in the corpus matched.
func TopRelevant(ranked []ScoredDocument, minScore float64, maxCount int) []ScoredDocument {
	top := make([]ScoredDocument, 0, len(ranked))
	for _, entry := range ranked {
		if maxCount > 0 && len(top) == maxCount {
			break
		}
		if entry.Score > minScore {
			top = append(top, entry)
		}
	}
	return top
}

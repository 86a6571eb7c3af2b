package rag

// Document is the read-only view of a stored file that the ranker scores.
// Absent fields are empty strings; Tags may be nil.
type Document struct {
	// ID identifies the document in results. It is never interpreted.
	ID string
	// Name is the display name or filename.
	Name string
	// Topic is a short category label.
	Topic string
	// Team is the owning team. It is carried into the context block but not scored.
	Team string
	// Tags are short labels attached at upload time.
	Tags []string
	// Summary is a free-text description of the content.
	Summary string
	// Location references the stored bytes (e.g. a URL). It is passed through untouched.
	Location string
}

// ScoredDocument pairs a Document with its relevance score for one query.
type ScoredDocument struct {
	Document
	Score float64
}

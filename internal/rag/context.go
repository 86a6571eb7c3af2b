package rag

import (
	"fmt"
	"strings"
)

const (
	// DefaultContextDocs is the number of documents BuildContext serializes when maxDocs <= 0.
	DefaultContextDocs = 5
	// DefaultDirectLinks is the number of references DirectLinks returns when limit <= 0.
	DefaultDirectLinks = 3

	missingField = "N/A"
)

// BuildContext serializes the first maxDocs ranked documents into plain-text
// blocks separated by a blank line, preserving ranking order. Field text is
// never truncated.
func BuildContext(ranked []ScoredDocument, maxDocs int) string {
	if maxDocs <= 0 {
		maxDocs = DefaultContextDocs
	}
	if len(ranked) > maxDocs {
		ranked = ranked[:maxDocs]
	}

	blocks := make([]string, 0, len(ranked))
	for _, entry := range ranked {
		blocks = append(blocks, contextBlock(entry.Document))
	}
	return strings.Join(blocks, "\n\n")
}

func contextBlock(doc Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", doc.Name)
	fmt.Fprintf(&b, "Topic: %s\n", orMissing(doc.Topic))
	fmt.Fprintf(&b, "Team: %s\n", orMissing(doc.Team))
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(doc.Tags, ", "))
	fmt.Fprintf(&b, "Summary: %s\n", doc.Summary)
	fmt.Fprintf(&b, "URL: %s", doc.Location)
	return b.String()
}

func orMissing(value string) string {
	if value == "" {
		return missingField
	}
	return value
}

// DirectLinks returns the non-empty location references among the first
// limit ranked documents, in ranking order.
func DirectLinks(ranked []ScoredDocument, limit int) []string {
	if limit <= 0 {
		limit = DefaultDirectLinks
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	links := make([]string, 0, len(ranked))
	for _, entry := range ranked {
		if entry.Location != "" {
			links = append(links, entry.Location)
		}
	}
	return links
}

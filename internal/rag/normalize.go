package rag

import "strings"

// separatorChars are folded to spaces before tokenizing.
const separatorChars = "-_.,/\\#@!$%^&*;:{}=`~()\""

// Normalize lower-cases text, turns punctuation separators into spaces and
// collapses whitespace, so "Q4_Financial-Report.PDF" becomes "q4 financial report pdf".
// It is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(separatorChars, r) {
			return ' '
		}
		return r
	}, strings.ToLower(text))

	return strings.Join(strings.Fields(mapped), " ")
}

// Tokenize normalizes text and splits it into tokens. Empty input yields nil.
func Tokenize(text string) []string {
	tokens := strings.Fields(Normalize(text))
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

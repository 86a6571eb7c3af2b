package rag

import "regexp"

// directFilePattern matches requests for a link rather than an explanation,
// e.g. "send me that file", "share the budget file", "download".
var directFilePattern = regexp.MustCompile(
	`\bsend\b.*file\b|\bsend\b.*url\b|\bshare\b.*file\b|\bget\b.*file\b|\bdownload\b`,
)

// WantsDirectFile reports whether the query asks for the file itself.
func WantsDirectFile(q string) bool {
	return directFilePattern.MatchString(Normalize(q))
}

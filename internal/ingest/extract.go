// Package ingest turns an uploaded file reference into the metadata the
// ranking engine scores: it downloads the bytes, extracts readable text
// and asks the LLM to classify it.
package ingest

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

var textExtensions = map[string]bool{
	".txt":  true,
	".csv":  true,
	".tsv":  true,
	".json": true,
	".log":  true,
	".xml":  true,
	".yaml": true,
	".yml":  true,
}

// ExtractText returns the readable text of an upload. Markdown is flattened
// to plain text, other text formats are returned as-is and binary formats
// yield "".
func ExtractText(mimeType, name string, content []byte) string {
	if len(content) == 0 {
		return ""
	}

	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case isMarkdown(mimeType, ext):
		return markdownText(content)
	case isPlainText(mimeType, ext):
		return strings.TrimSpace(strings.ToValidUTF8(string(content), ""))
	default:
		return ""
	}
}

func isMarkdown(mimeType, ext string) bool {
	return mimeType == "text/markdown" || mimeType == "text/x-markdown" || ext == ".md" || ext == ".markdown"
}

func isPlainText(mimeType, ext string) bool {
	switch {
	case strings.HasPrefix(mimeType, "text/"):
		return true
	case mimeType == "application/json", mimeType == "application/xml", mimeType == "application/x-yaml":
		return true
	}
	return textExtensions[ext]
}

// markdownText walks the goldmark AST and emits one line per block.
func markdownText(content []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(content))

	var lines []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			if line := inlineText(n, content); line != "" {
				lines = append(lines, line)
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			segments := n.Lines()
			for i := 0; i < segments.Len(); i++ {
				seg := segments.At(i)
				if line := strings.TrimRight(string(seg.Value(content)), "\r\n"); line != "" {
					lines = append(lines, line)
				}
			}
			return ast.WalkSkipChildren, nil

		case *east.TableHeader, *east.TableRow:
			lines = append(lines, tableRowText(n, content))
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return strings.Join(lines, "\n")
}

// inlineText concatenates the inline text under n, turning line breaks into spaces.
func inlineText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(content))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// tableRowText formats a table row with pipe separators between cells.
func tableRowText(row ast.Node, content []byte) string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); ok {
			cells = append(cells, inlineText(c, content))
		}
	}
	return strings.Join(cells, " | ")
}

// Truncate shortens s to at most maxRunes runes. maxRunes <= 0 disables the limit.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}

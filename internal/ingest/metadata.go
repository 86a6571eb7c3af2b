package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"filestation-ai/internal/llm"
)

const (
	// DefaultTeam is used when neither the LLM nor the uploader provide a team.
	DefaultTeam = "General"
	// DefaultTopic is used when the LLM provides no topic.
	DefaultTopic = "general"

	// maxPromptRunes bounds how much extracted text is sent to the LLM.
	maxPromptRunes = 12000
)

const metadataInstructions = `Analyze the file and return a compact JSON only with this shape:
{"topic":"one-word","team":"one-word","tags":["t1","t2"],"summary":"3-4 short sentences"}`

// Metadata is what the LLM extracts from an upload.
type Metadata struct {
	Topic   string   `json:"topic"`
	Team    string   `json:"team"`
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
}

// WithDefaults fills missing fields: team from the uploader's first team or
// DefaultTeam, topic from DefaultTopic, and a non-nil tag list.
func (m Metadata) WithDefaults(uploaderTeams []string) Metadata {
	if m.Team == "" {
		m.Team = DefaultTeam
		if len(uploaderTeams) > 0 && uploaderTeams[0] != "" {
			m.Team = uploaderTeams[0]
		}
	}
	if m.Topic == "" {
		m.Topic = DefaultTopic
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m
}

// ChatClient is the LLM surface the extractor needs.
type ChatClient interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// MetadataExtractor asks an LLM to classify uploads.
type MetadataExtractor struct {
	llm ChatClient
}

// NewMetadataExtractor creates a MetadataExtractor.
func NewMetadataExtractor(client ChatClient) *MetadataExtractor {
	return &MetadataExtractor{llm: client}
}

// Extract prompts the LLM with the file's name, type and text. A reply without
// a parsable JSON object yields empty Metadata and no error; only a failed LLM
// call returns an error.
func (e *MetadataExtractor) Extract(ctx context.Context, name, mimeType, content string) (Metadata, error) {
	messages := []llm.Message{
		{Role: "system", Content: "You label company documents for search. Reply with JSON only."},
		{Role: "user", Content: buildMetadataPrompt(name, mimeType, content)},
	}

	reply, err := e.llm.ChatWithMessages(ctx, messages, llm.ChatParams{Temperature: 0.2})
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to extract metadata: %w", err)
	}

	md, _ := ParseMetadata(reply)
	return md, nil
}

func buildMetadataPrompt(name, mimeType, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File name: %s\n", name)
	fmt.Fprintf(&b, "File type: %s\n", mimeType)
	if content = strings.TrimSpace(content); content != "" {
		b.WriteString("Content:\n")
		b.WriteString(Truncate(content, maxPromptRunes))
		b.WriteString("\n")
	} else {
		b.WriteString("Content: (not readable, use the name and type)\n")
	}
	b.WriteString("\n")
	b.WriteString(metadataInstructions)
	return b.String()
}

// ParseMetadata decodes the JSON object spanning the first "{" to the last "}"
// of reply. Fields with unexpected types are ignored. It reports false when no
// object could be decoded.
func ParseMetadata(reply string) (Metadata, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end < start {
		return Metadata{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return Metadata{}, false
	}

	md := Metadata{
		Topic:   stringField(raw["topic"]),
		Team:    stringField(raw["team"]),
		Summary: stringField(raw["summary"]),
	}

	switch tags := raw["tags"].(type) {
	case []any:
		for _, t := range tags {
			if s := stringField(t); s != "" {
				md.Tags = append(md.Tags, s)
			}
		}
	case string:
		for _, s := range strings.Split(tags, ",") {
			if s = strings.TrimSpace(s); s != "" {
				md.Tags = append(md.Tags, s)
			}
		}
	}

	return md, true
}

func stringField(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
